package consulta

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// RateLimitConfig representa as configurações do rate limit
type RateLimitConfig struct {
	Enabled           bool                     // Se o rate limit está habilitado
	RequestsPerMinute int                      // Número de requisições por minuto
	BurstSize         int                      // Tamanho do burst (requisições simultâneas)
	WindowSize        time.Duration            // Tamanho da janela de tempo
	KeyGenerator      func(c fiber.Ctx) string // Função para gerar chave única
	Headers           bool                     // Incluir headers de rate limit na resposta
}

// DefaultRateLimitConfig retorna uma configuração padrão de rate limit
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: DefaultRateLimitPerMinute,
		BurstSize:         DefaultRateLimitBurstSize,
		WindowSize:        DefaultRateLimitWindow,
		KeyGenerator:      defaultKeyGenerator,
		Headers:           true,
	}
}

// RateLimiter implementa o controle de rate limit por cliente em janela
// deslizante
type RateLimiter struct {
	config        *RateLimitConfig
	clients       map[string]*ClientLimiter
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
	stopCleanup   chan bool
}

// ClientLimiter representa o limitador para um cliente específico
type ClientLimiter struct {
	requests   []time.Time
	lastAccess time.Time
	mu         sync.Mutex
}

// NewRateLimiter cria uma nova instância do rate limiter
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config:      config,
		clients:     make(map[string]*ClientLimiter),
		stopCleanup: make(chan bool),
	}

	if config.Enabled {
		rl.startCleanup()
	}

	return rl
}

// startCleanup inicia a limpeza automática de clientes inativos
func (rl *RateLimiter) startCleanup() {
	rl.cleanupTicker = time.NewTicker(5 * time.Minute)
	go func() {
		for {
			select {
			case <-rl.cleanupTicker.C:
				rl.cleanupInactiveClients()
			case <-rl.stopCleanup:
				rl.cleanupTicker.Stop()
				return
			}
		}
	}()
}

// cleanupInactiveClients remove clientes inativos há mais de 10 minutos
func (rl *RateLimiter) cleanupInactiveClients() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for key, client := range rl.clients {
		client.mu.Lock()
		if client.lastAccess.Before(cutoff) {
			delete(rl.clients, key)
		}
		client.mu.Unlock()
	}
}

// Stop para o rate limiter e limpa recursos
func (rl *RateLimiter) Stop() {
	if rl.cleanupTicker != nil {
		rl.stopCleanup <- true
	}
}

// Allow verifica se uma requisição é permitida
func (rl *RateLimiter) Allow(key string) (bool, RateLimitInfo) {
	if !rl.config.Enabled {
		return true, RateLimitInfo{}
	}

	rl.mu.Lock()
	client, exists := rl.clients[key]
	if !exists {
		client = &ClientLimiter{
			requests: make([]time.Time, 0),
		}
		rl.clients[key] = client
	}
	rl.mu.Unlock()

	client.mu.Lock()
	defer client.mu.Unlock()

	now := time.Now()
	client.lastAccess = now

	// Remove requisições antigas (fora da janela)
	cutoff := now.Add(-rl.config.WindowSize)
	validRequests := make([]time.Time, 0)
	for _, reqTime := range client.requests {
		if reqTime.After(cutoff) {
			validRequests = append(validRequests, reqTime)
		}
	}
	client.requests = validRequests

	if len(client.requests) >= rl.config.RequestsPerMinute {
		if rl.config.RequestsPerMinute == 0 || len(client.requests) == 0 {
			return false, RateLimitInfo{
				Allowed:    false,
				Limit:      rl.config.RequestsPerMinute,
				Remaining:  0,
				ResetTime:  now.Add(rl.config.WindowSize),
				RetryAfter: int(rl.config.WindowSize.Seconds()),
			}
		}

		oldestRequest := client.requests[0]
		resetTime := oldestRequest.Add(rl.config.WindowSize)
		remainingTime := resetTime.Sub(now)

		return false, RateLimitInfo{
			Allowed:    false,
			Limit:      rl.config.RequestsPerMinute,
			Remaining:  0,
			ResetTime:  resetTime,
			RetryAfter: int(remainingTime.Seconds()),
		}
	}

	client.requests = append(client.requests, now)

	return true, RateLimitInfo{
		Allowed:   true,
		Limit:     rl.config.RequestsPerMinute,
		Remaining: rl.config.RequestsPerMinute - len(client.requests),
		ResetTime: now.Add(rl.config.WindowSize),
	}
}

// RateLimitInfo contém informações sobre o status do rate limit
type RateLimitInfo struct {
	Allowed    bool      // Se a requisição é permitida
	Limit      int       // Limite total de requisições
	Remaining  int       // Requisições restantes
	ResetTime  time.Time // Quando o limite será resetado
	RetryAfter int       // Segundos para tentar novamente (se bloqueado)
}

// defaultKeyGenerator gera uma chave baseada no IP do cliente
func defaultKeyGenerator(c fiber.Ctx) string {
	ip := c.IP()

	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		ip = forwardedFor
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}

	return fmt.Sprintf("rate_limit:%s", ip)
}

// UserBasedKeyGenerator gera chave baseada no usuário autenticado
func UserBasedKeyGenerator(c fiber.Ctx) string {
	if userID := c.Locals("user_id"); userID != nil {
		return fmt.Sprintf("rate_limit:user:%v", userID)
	}
	return defaultKeyGenerator(c)
}

// RateLimitMiddleware cria um middleware de rate limit
func (s *Server) RateLimitMiddleware() fiber.Handler {
	if s.rateLimiter == nil {
		return func(c fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c fiber.Ctx) error {
		key := s.rateLimiter.config.KeyGenerator(c)
		allowed, info := s.rateLimiter.Allow(key)

		if s.rateLimiter.config.Headers {
			c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))

			if !allowed {
				c.Set("X-RateLimit-Retry-After", strconv.Itoa(info.RetryAfter))
			}
		}

		if !allowed {
			c.Status(http.StatusTooManyRequests)
			return c.JSON(RespostaErro{
				Error: NewConsultaError("RateLimitExceeded",
					fmt.Sprintf("Limite de requisições excedido. Tente novamente em %d segundos.", info.RetryAfter),
					"rate_limit"),
			})
		}

		return c.Next()
	}
}
