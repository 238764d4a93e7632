package consulta

import (
	"fmt"
	"strings"
)

// Registro representa um registro de referência de uma entidade orçamentária
type Registro struct {
	Codigo    string `json:"codigo"`
	Mnemonico string `json:"mnemonico,omitempty"`
	Descricao string `json:"descricao"`
}

// Resultado representa uma entidade resolvida a partir de um trecho da frase.
// TrechoEncontrado guarda o texto literal que disparou o match; quando o match
// veio da descrição, o trecho é a frase inteira e não é removido na cascata.
type Resultado struct {
	Codigo           string `json:"codigo"`
	Descricao        string `json:"descricao"`
	TrechoEncontrado string `json:"trecho_encontrado,omitempty"`
}

// FiltroMap mapeia o nome canônico da entidade para os registros resolvidos
type FiltroMap map[string][]Resultado

// ConsultaSQL representa a query de agregação montada, pronta para execução
type ConsultaSQL struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// Códigos de erro expostos pelo núcleo da consulta
const (
	ErrCodeInvalidField   = "InvalidField"
	ErrCodeInvalidRequest = "InvalidRequest"
	ErrCodeLoadFailure    = "LoadFailure"
)

// ConsultaError representa um erro de validação do núcleo
type ConsultaError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Target  string `json:"target,omitempty"`
}

// Error implementa a interface error
func (e *ConsultaError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Target)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConsultaError cria um novo erro de consulta
func NewConsultaError(code, message, target string) *ConsultaError {
	return &ConsultaError{Code: code, Message: message, Target: target}
}

// RespostaErro é o envelope JSON de erro devolvido pela camada HTTP
type RespostaErro struct {
	Error *ConsultaError `json:"error"`
}

// InvalidFieldError cria um erro para campos fora da lista permitida
func InvalidFieldError(campos []string) *ConsultaError {
	return &ConsultaError{
		Code:    ErrCodeInvalidField,
		Message: fmt.Sprintf("Campos inválidos: %s", strings.Join(campos, ", ")),
		Target:  strings.Join(campos, ","),
	}
}

// InvalidRequestError cria um erro para requisições sem campos obrigatórios
func InvalidRequestError(message string) *ConsultaError {
	return &ConsultaError{Code: ErrCodeInvalidRequest, Message: message}
}

// LoadFailureError cria um erro fatal de carga de dados de referência
func LoadFailureError(entidade string, err error) *ConsultaError {
	return &ConsultaError{
		Code:    ErrCodeLoadFailure,
		Message: fmt.Sprintf("falha ao carregar dados de referência: %v", err),
		Target:  entidade,
	}
}
