package consulta

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// Server expõe o pipeline de consulta por HTTP
type Server struct {
	router      *fiber.App
	config      *EnvConfig
	catalogo    *Catalogo
	pipeline    *Pipeline
	executor    *Executor
	formatador  *FormatadorMoeda
	jwtService  *JWTService
	rateLimiter *RateLimiter
	logger      *log.Logger

	mu      sync.Mutex
	running bool
}

// NovoServer monta o servidor com os middlewares configurados. O executor é
// opcional; sem ele apenas a rota de montagem de SQL fica disponível.
func NovoServer(config *EnvConfig, catalogo *Catalogo, pipeline *Pipeline, executor *Executor) *Server {
	logger := log.New(os.Stdout, "[Consulta] ", log.LstdFlags|log.Lshortfile)

	server := &Server{
		router:     fiber.New(),
		config:     config,
		catalogo:   catalogo,
		pipeline:   pipeline,
		executor:   executor,
		formatador: NovoFormatadorMoeda(),
		logger:     logger,
	}

	if config.JWTEnabled && config.JWTSecretKey != "" {
		server.jwtService = NewJWTService(&JWTConfig{
			SecretKey: config.JWTSecretKey,
			Issuer:    config.JWTIssuer,
			ExpiresIn: config.JWTExpiresIn,
		})
		logger.Printf("JWT habilitado com issuer: %s", config.JWTIssuer)
	}

	if config.RateLimitEnabled {
		server.rateLimiter = NewRateLimiter(&RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: config.RateLimitRequestsPerMinute,
			BurstSize:         config.RateLimitBurstSize,
			WindowSize:        config.RateLimitWindowSize,
			KeyGenerator:      defaultKeyGenerator,
			Headers:           config.RateLimitHeaders,
		})
		logger.Printf("Rate limit habilitado: %d req/min", config.RateLimitRequestsPerMinute)
	}

	if config.ServerEnableCORS {
		server.router.Use(cors.New(cors.Config{
			AllowOrigins:     config.ServerAllowedOrigins,
			AllowMethods:     config.ServerAllowedMethods,
			AllowHeaders:     config.ServerAllowedHeaders,
			AllowCredentials: config.ServerAllowCredentials,
		}))
	}
	if config.ServerEnableLogging {
		server.router.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${method} ${path} ${status} ${latency}\n",
			Output: os.Stdout,
		}))
	}

	// Recovery sempre ativo
	server.router.Use(recover.New())

	server.setupRoutes()

	return server
}

// setupRoutes registra as rotas do servidor
func (s *Server) setupRoutes() {
	prefix := s.config.ServerRoutePrefix

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/info", s.handleInfo, s.BasicAuthMiddleware())

	// O handler vem primeiro e os middlewares no variádico; o fiber executa
	// os middlewares antes do handler
	middlewares := []fiber.Handler{s.RateLimitMiddleware()}
	if s.jwtService != nil {
		middlewares = append(middlewares, s.JWTMiddleware())
	}

	s.router.Post(prefix+"/consultar", s.handleConsultar, middlewares...)
	s.router.Post(prefix+"/consultar/sql", s.handleConsultarSQL, middlewares...)
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext inicia o servidor com contexto e shutdown graceful
func (s *Server) StartWithContext(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("servidor já está rodando")
	}
	s.running = true
	s.mu.Unlock()

	addr := fmt.Sprintf("%s:%d", s.config.ServerHost, s.config.ServerPort)

	s.logger.Printf("🚀 Servidor de consulta iniciado em http://%s", addr)
	s.logger.Printf("🔗 Endpoints disponíveis:")
	s.logger.Printf("   - Consulta: http://%s%s/consultar", addr, s.config.ServerRoutePrefix)
	s.logger.Printf("   - Consulta (apenas SQL): http://%s%s/consultar/sql", addr, s.config.ServerRoutePrefix)
	s.logger.Printf("   - Health Check: http://%s/health", addr)
	s.logger.Printf("   - Server Info: http://%s/info", addr)

	go s.setupGracefulShutdown(ctx)

	return s.router.Listen(addr)
}

// setupGracefulShutdown aguarda cancelamento do contexto ou sinal do sistema
func (s *Server) setupGracefulShutdown(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		s.logger.Printf("Contexto cancelado, parando servidor...")
	case sig := <-sigChan:
		s.logger.Printf("Sinal recebido: %v, parando servidor...", sig)
	}

	if err := s.Shutdown(); err != nil {
		s.logger.Printf("Erro durante shutdown: %v", err)
	}
}

// Shutdown para o servidor gracefully
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("servidor não está rodando")
	}

	s.logger.Printf("Parando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer cancel()

	if err := s.router.ShutdownWithContext(ctx); err != nil {
		s.logger.Printf("Erro durante shutdown: %v", err)
		return err
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.running = false
	s.logger.Printf("Servidor parado")
	return nil
}

// Router expõe o roteador para testes
func (s *Server) Router() *fiber.App {
	return s.router
}

// Logger expõe o logger do servidor
func (s *Server) Logger() *log.Logger {
	return s.logger
}
