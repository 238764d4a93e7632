package consulta

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

// RequisicaoConsulta é o corpo aceito pelas rotas de consulta
type RequisicaoConsulta struct {
	Frase string `json:"frase"`
}

// RespostaConsulta é o corpo devolvido pela rota de consulta com execução
type RespostaConsulta struct {
	Consulta  *Consulta          `json:"consulta"`
	Resultado *ResultadoConsulta `json:"resultado"`
}

// handleHealth responde o health check
func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleInfo responde informações do servidor e das tabelas carregadas
func (s *Server) handleInfo(c fiber.Ctx) error {
	tabelas := make(map[string]int)
	if s.catalogo != nil {
		for _, nome := range ColunasEntidade {
			if tabela, ok := s.catalogo.Tabela(nome); ok {
				tabelas[nome] = tabela.Tamanho()
			}
		}
	}

	return c.JSON(fiber.Map{
		"nome":      s.config.ServiceName,
		"descricao": s.config.ServiceDescription,
		"dialeto":   s.config.Dialeto().Nome(),
		"tabelas":   tabelas,
	})
}

// handleConsultar interpreta a frase, executa a consulta no banco e devolve
// as linhas com os agregados formatados em moeda
func (s *Server) handleConsultar(c fiber.Ctx) error {
	consulta, err := s.processarRequisicao(c)
	if err != nil {
		return s.responderErro(c, err)
	}
	if s.executor == nil {
		c.Status(http.StatusServiceUnavailable)
		return c.JSON(RespostaErro{
			Error: NewConsultaError("ExecutionUnavailable",
				"Execução de consultas não está configurada neste servidor", ""),
		})
	}

	resultado, err := s.executor.Executar(c.Context(), consulta)
	if err != nil {
		s.logger.Printf("falha na execução: %v", err)
		c.Status(http.StatusInternalServerError)
		return c.JSON(RespostaErro{
			Error: NewConsultaError("ExecutionFailure",
				"Falha ao executar a consulta", ""),
		})
	}
	s.formatador.FormatarLinhas(resultado)

	return c.JSON(RespostaConsulta{Consulta: consulta, Resultado: resultado})
}

// handleConsultarSQL interpreta a frase e devolve apenas o SQL montado com
// os parâmetros e filtros, sem executar
func (s *Server) handleConsultarSQL(c fiber.Ctx) error {
	consulta, err := s.processarRequisicao(c)
	if err != nil {
		return s.responderErro(c, err)
	}
	return c.JSON(consulta)
}

// processarRequisicao valida o corpo e roda o pipeline
func (s *Server) processarRequisicao(c fiber.Ctx) (*Consulta, error) {
	var req RequisicaoConsulta
	if err := c.Bind().Body(&req); err != nil {
		return nil, InvalidRequestError("corpo da requisição inválido")
	}
	if strings.TrimSpace(req.Frase) == "" {
		return nil, InvalidRequestError("a frase da consulta é obrigatória")
	}
	if len(req.Frase) > DefaultMaxFraseLength {
		return nil, InvalidRequestError("a frase da consulta é longa demais")
	}

	return s.pipeline.Processar(c.Context(), req.Frase)
}

// responderErro mapeia o erro para o status HTTP: erros de validação viram
// 400; todo o resto vira 500 com payload genérico, sem vazar detalhes
func (s *Server) responderErro(c fiber.Ctx, err error) error {
	var consultaErr *ConsultaError
	if errors.As(err, &consultaErr) && consultaErr.Code != ErrCodeLoadFailure {
		c.Status(http.StatusBadRequest)
		return c.JSON(RespostaErro{Error: consultaErr})
	}

	s.logger.Printf("falha no pipeline: %v", err)
	c.Status(http.StatusInternalServerError)
	return c.JSON(RespostaErro{
		Error: NewConsultaError("InternalError", "Falha ao processar a consulta", ""),
	})
}

// BasicAuthMiddleware protege rotas administrativas com a credencial do .env
// (senha armazenada como hash bcrypt). Sem credencial configurada, a rota
// fica aberta.
func (s *Server) BasicAuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if s.config.AdminUser == "" || s.config.AdminPasswordHash == "" {
			return c.Next()
		}

		usuario, senha, ok := credenciaisBasic(c.Get("Authorization"))
		if !ok || usuario != s.config.AdminUser {
			return negarBasic(c)
		}
		if bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(senha)) != nil {
			return negarBasic(c)
		}
		return c.Next()
	}
}

// credenciaisBasic decodifica o header Authorization: Basic
func credenciaisBasic(header string) (string, string, bool) {
	const prefixo = "Basic "
	if !strings.HasPrefix(header, prefixo) {
		return "", "", false
	}
	decodificado, err := base64.StdEncoding.DecodeString(header[len(prefixo):])
	if err != nil {
		return "", "", false
	}
	usuario, senha, ok := strings.Cut(string(decodificado), ":")
	return usuario, senha, ok
}

func negarBasic(c fiber.Ctx) error {
	c.Set("WWW-Authenticate", `Basic realm="go-consulta"`)
	c.Status(http.StatusUnauthorized)
	return c.JSON(RespostaErro{
		Error: NewConsultaError("Unauthorized", "Credenciais inválidas", ""),
	})
}
