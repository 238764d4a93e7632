package consulta

import (
	"database/sql"
	"fmt"
	"time"
)

// ProviderFactory é uma função que cria um provider de banco de dados
type ProviderFactory func() DatabaseProvider

// Registry global de providers
var providerRegistry = make(map[string]ProviderFactory)

// RegisterProvider registra uma factory de provider para um driver
func RegisterProvider(driver string, factory ProviderFactory) {
	providerRegistry[driver] = factory
}

// CreateProvider cria o provider configurado no .env
func (c *EnvConfig) CreateProvider() (DatabaseProvider, error) {
	factory, exists := providerRegistry[c.DBDriver]
	if !exists {
		return nil, fmt.Errorf("driver não suportado: %s", c.DBDriver)
	}
	return factory(), nil
}

// DatabaseProvider abstrai a conexão com o banco para o executor e o store
// de credores
type DatabaseProvider interface {
	// DriverName retorna o nome do driver registrado em database/sql
	DriverName() string

	// Connect abre a conexão e configura o pool conforme o .env
	Connect(config *EnvConfig) error

	// DB retorna a conexão ativa, ou nil
	DB() *sql.DB

	// Dialeto retorna o dialeto SQL do provider
	Dialeto() Dialeto

	// Close fecha a conexão
	Close() error
}

// BaseProvider implementa o comportamento comum aos providers
type BaseProvider struct {
	driverName string
	db         *sql.DB
}

func (p *BaseProvider) DriverName() string {
	return p.driverName
}

func (p *BaseProvider) DB() *sql.DB {
	return p.db
}

func (p *BaseProvider) Dialeto() Dialeto {
	return DialetoPorNome(p.driverName)
}

func (p *BaseProvider) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// conectar abre e testa a conexão, aplicando a configuração de pool
func (p *BaseProvider) conectar(config *EnvConfig) error {
	db, err := sql.Open(p.driverName, config.BuildConnectionString())
	if err != nil {
		return fmt.Errorf("falha ao abrir conexão %s: %w", p.driverName, err)
	}

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)

	lifetime := config.DBConnMaxLifetime
	if lifetime == 0 {
		lifetime = 5 * time.Minute
	}
	db.SetConnMaxLifetime(lifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("falha ao conectar ao banco %s: %w", p.driverName, err)
	}

	p.db = db
	return nil
}
