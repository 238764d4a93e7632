package consulta

import (
	"context"
	"fmt"
	"time"

	"github.com/kardianos/service"
)

// =================================================================================================
// IMPLEMENTAÇÃO DE SERVIÇO (Windows Service, systemd, launchd)
// =================================================================================================

// ServiceWrapper implementa a interface service.Interface para o servidor de
// consulta
type ServiceWrapper struct {
	server        *Server
	serviceLogger service.Logger
	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// Start é chamado pelo gerenciador de serviços para iniciar o serviço
func (sw *ServiceWrapper) Start(svc service.Service) error {
	if sw.serviceLogger != nil {
		sw.serviceLogger.Info("🚀 Iniciando serviço de consulta...")
	}

	sw.serviceCtx, sw.serviceCancel = context.WithCancel(context.Background())

	go sw.runAsService()

	return nil
}

func (sw *ServiceWrapper) runAsService() {
	defer func() {
		if panicValue := recover(); panicValue != nil {
			if sw.serviceLogger != nil {
				sw.serviceLogger.Errorf("Erro crítico no serviço: %v", panicValue)
			}
		}
	}()

	if err := sw.server.StartWithContext(sw.serviceCtx); err != nil {
		if sw.serviceLogger != nil {
			sw.serviceLogger.Errorf("Erro ao iniciar servidor: %v", err)
		}
	}
}

// Stop é chamado pelo gerenciador de serviços para parar o serviço
func (sw *ServiceWrapper) Stop(svc service.Service) error {
	if sw.serviceLogger != nil {
		sw.serviceLogger.Info("⏹️ Parando serviço de consulta...")
	}

	if sw.serviceCancel != nil {
		sw.serviceCancel()
	}

	// Aguarda um tempo para shutdown graceful
	time.Sleep(2 * time.Second)

	if err := sw.server.Shutdown(); err != nil {
		if sw.serviceLogger != nil {
			sw.serviceLogger.Errorf("Erro ao parar servidor: %v", err)
		}
		return err
	}

	if sw.serviceLogger != nil {
		sw.serviceLogger.Info("✅ Serviço de consulta parado com sucesso")
	}

	return nil
}

// NovoServico cria o serviço de sistema operacional para o servidor
func NovoServico(server *Server) (service.Service, error) {
	wrapper := &ServiceWrapper{server: server}

	svcConfig := &service.Config{
		Name:        server.config.ServiceName,
		DisplayName: server.config.ServiceDisplayName,
		Description: server.config.ServiceDescription,
	}

	svc, err := service.New(wrapper, svcConfig)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar serviço: %w", err)
	}

	logger, err := svc.Logger(nil)
	if err == nil {
		wrapper.serviceLogger = logger
	}

	return svc, nil
}

// ExecutarComandoServico aplica um comando de controle (install, uninstall,
// start, stop, restart) ao serviço
func ExecutarComandoServico(svc service.Service, comando string) error {
	if err := service.Control(svc, comando); err != nil {
		return fmt.Errorf("falha ao executar comando %q: %w", comando, err)
	}
	return nil
}
