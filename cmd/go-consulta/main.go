package main

import (
	"log"
	"os"

	"github.com/fitlcarlos/go-consulta/consulta"
)

func main() {
	logger := log.New(os.Stdout, "[Consulta] ", log.LstdFlags)

	config, err := consulta.LoadEnvConfig()
	if err != nil {
		logger.Fatalf("falha ao carregar configuração: %v", err)
	}

	var store consulta.CredorStore
	var executor *consulta.Executor

	provider, err := config.CreateProvider()
	if err != nil {
		logger.Fatalf("falha ao criar provider: %v", err)
	}
	if config.DBUser != "" || config.DBConnectionString != "" {
		if err := provider.Connect(config); err != nil {
			logger.Fatalf("falha ao conectar ao banco: %v", err)
		}
		defer provider.Close()

		store = consulta.NovoSQLCredorStore(provider.DB(), provider.Dialeto(), config.DBTabelaCredores)
		executor = consulta.NovoExecutor(provider.DB())
	} else {
		logger.Printf("banco não configurado, servindo apenas a montagem de SQL")
	}

	catalogo, err := consulta.NovoCatalogo(config.DadosDir, store)
	if err != nil {
		logger.Fatalf("falha ao carregar dados de referência: %v", err)
	}

	pipeline := consulta.NovoPipeline(catalogo, config.Dialeto(), config.DBTabelaExecucao, logger)
	server := consulta.NovoServer(config, catalogo, pipeline, executor)

	if len(os.Args) > 1 {
		comando := os.Args[1]
		svc, err := consulta.NovoServico(server)
		if err != nil {
			logger.Fatalf("falha ao criar serviço: %v", err)
		}

		switch comando {
		case "install", "uninstall", "start", "stop", "restart":
			if err := consulta.ExecutarComandoServico(svc, comando); err != nil {
				logger.Fatalf("%v", err)
			}
			logger.Printf("comando %q executado com sucesso", comando)
			return
		case "run":
			if err := svc.Run(); err != nil {
				logger.Fatalf("falha ao rodar como serviço: %v", err)
			}
			return
		default:
			logger.Fatalf("comando desconhecido: %s", comando)
		}
	}

	if err := server.Start(); err != nil {
		logger.Fatalf("falha ao iniciar servidor: %v", err)
	}
}
