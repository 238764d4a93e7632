package consulta

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvConfig representa as configurações carregadas do arquivo .env
type EnvConfig struct {
	// Configurações do banco de dados
	DBDriver           string
	DBHost             string
	DBPort             string
	DBName             string
	DBUser             string
	DBPassword         string
	DBConnectionString string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	DBTabelaExecucao   string
	DBTabelaCredores   string

	// Diretório dos CSVs de referência
	DadosDir string

	// Configurações do servidor
	ServerHost             string
	ServerPort             int
	ServerRoutePrefix      string
	ServerEnableCORS       bool
	ServerAllowedOrigins   []string
	ServerAllowedMethods   []string
	ServerAllowedHeaders   []string
	ServerAllowCredentials bool
	ServerEnableLogging    bool
	ServerShutdownTimeout  time.Duration

	// Configurações JWT
	JWTEnabled   bool
	JWTSecretKey string
	JWTIssuer    string
	JWTExpiresIn time.Duration

	// Credencial administrativa (hash bcrypt) das rotas de informação
	AdminUser         string
	AdminPasswordHash string

	// Configurações do serviço de sistema
	ServiceName        string
	ServiceDisplayName string
	ServiceDescription string

	// Configurações de Rate Limit
	RateLimitEnabled           bool
	RateLimitRequestsPerMinute int
	RateLimitBurstSize         int
	RateLimitWindowSize        time.Duration
	RateLimitHeaders           bool

	// Mapa de todas as variáveis para acesso direto
	Variables map[string]string
}

// LoadEnvConfig carrega o arquivo .env (quando presente) e monta a
// configuração com valores padrão para o que faltar
func LoadEnvConfig() (*EnvConfig, error) {
	variables, err := godotenv.Read()
	if err != nil {
		variables = make(map[string]string)
	}

	config := &EnvConfig{Variables: variables}
	config.parseVariables()
	return config, nil
}

// parseVariables preenche as configurações a partir das variáveis carregadas
func (c *EnvConfig) parseVariables() {
	// Configurações do banco de dados
	c.DBDriver = c.getEnvString("DB_DRIVER", "mysql")
	c.DBHost = c.getEnvString("DB_HOST", "localhost")
	c.DBPort = c.getEnvString("DB_PORT", "3306")
	c.DBName = c.getEnvString("DB_NAME", "")
	c.DBUser = c.getEnvString("DB_USER", "")
	c.DBPassword = c.getEnvString("DB_PASSWORD", "")
	c.DBConnectionString = c.getEnvString("DB_CONNECTION_STRING", "")
	c.DBMaxOpenConns = c.getEnvInt("DB_MAX_OPEN_CONNS", DefaultMaxConnections)
	c.DBMaxIdleConns = c.getEnvInt("DB_MAX_IDLE_CONNS", DefaultMinConnections)
	c.DBConnMaxLifetime = c.getEnvDuration("DB_CONN_MAX_LIFETIME", DefaultMaxIdleTime)
	c.DBTabelaExecucao = c.getEnvString("DB_TABELA_EXECUCAO", TabelaExecucaoPadrao)
	c.DBTabelaCredores = c.getEnvString("DB_TABELA_CREDORES", "credores")

	c.DadosDir = c.getEnvString("DADOS_DIR", "dados")

	// Configurações do servidor
	c.ServerHost = c.getEnvString("SERVER_HOST", "localhost")
	c.ServerPort = c.getEnvInt("SERVER_PORT", 8080)
	c.ServerRoutePrefix = c.getEnvString("SERVER_ROUTE_PREFIX", "/api")
	c.ServerEnableCORS = c.getEnvBool("SERVER_ENABLE_CORS", true)
	c.ServerAllowedOrigins = c.getEnvStringSlice("SERVER_ALLOWED_ORIGINS", []string{"*"})
	c.ServerAllowedMethods = c.getEnvStringSlice("SERVER_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"})
	c.ServerAllowedHeaders = c.getEnvStringSlice("SERVER_ALLOWED_HEADERS", []string{"*"})
	c.ServerAllowCredentials = c.getEnvBool("SERVER_ALLOW_CREDENTIALS", false)
	c.ServerEnableLogging = c.getEnvBool("SERVER_ENABLE_LOGGING", true)
	c.ServerShutdownTimeout = c.getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	// Configurações JWT
	c.JWTEnabled = c.getEnvBool("JWT_ENABLED", false)
	c.JWTSecretKey = c.getEnvString("JWT_SECRET_KEY", "")
	c.JWTIssuer = c.getEnvString("JWT_ISSUER", "go-consulta")
	c.JWTExpiresIn = c.getEnvDuration("JWT_EXPIRES_IN", 1*time.Hour)

	c.AdminUser = c.getEnvString("ADMIN_USER", "")
	c.AdminPasswordHash = c.getEnvString("ADMIN_PASSWORD_HASH", "")

	// Configurações do serviço de sistema
	c.ServiceName = c.getEnvString("SERVICE_NAME", "go-consulta")
	c.ServiceDisplayName = c.getEnvString("SERVICE_DISPLAY_NAME", "Go Consulta")
	c.ServiceDescription = c.getEnvString("SERVICE_DESCRIPTION", "Serviço de consulta orçamentária em linguagem natural")

	// Configurações de Rate Limit
	c.RateLimitEnabled = c.getEnvBool("RATE_LIMIT_ENABLED", false)
	c.RateLimitRequestsPerMinute = c.getEnvInt("RATE_LIMIT_REQUESTS_PER_MINUTE", DefaultRateLimitPerMinute)
	c.RateLimitBurstSize = c.getEnvInt("RATE_LIMIT_BURST_SIZE", DefaultRateLimitBurstSize)
	c.RateLimitWindowSize = c.getEnvDuration("RATE_LIMIT_WINDOW_SIZE", DefaultRateLimitWindow)
	c.RateLimitHeaders = c.getEnvBool("RATE_LIMIT_HEADERS", true)
}

// getEnvString retorna uma string do ambiente ou valor padrão
func (c *EnvConfig) getEnvString(key, defaultValue string) string {
	if value, exists := c.Variables[key]; exists {
		return value
	}
	return defaultValue
}

// getEnvInt retorna um int do ambiente ou valor padrão
func (c *EnvConfig) getEnvInt(key string, defaultValue int) int {
	if value, exists := c.Variables[key]; exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retorna um bool do ambiente ou valor padrão
func (c *EnvConfig) getEnvBool(key string, defaultValue bool) bool {
	if value, exists := c.Variables[key]; exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration retorna uma duração do ambiente ou valor padrão
func (c *EnvConfig) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := c.Variables[key]; exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvStringSlice retorna um slice de strings do ambiente ou valor padrão
func (c *EnvConfig) getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := c.Variables[key]; exists {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// BuildConnectionString constrói a string de conexão baseada no driver
func (c *EnvConfig) BuildConnectionString() string {
	if c.DBConnectionString != "" {
		return c.DBConnectionString
	}

	switch c.DBDriver {
	case "oracle":
		return fmt.Sprintf("oracle://%s:%s@%s:%s/%s",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	default:
		return c.DBConnectionString
	}
}

// Dialeto resolve o dialeto SQL configurado
func (c *EnvConfig) Dialeto() Dialeto {
	return DialetoPorNome(c.DBDriver)
}
