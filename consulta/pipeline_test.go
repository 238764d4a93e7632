package consulta

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func pipelineTeste(t *testing.T) *Pipeline {
	t.Helper()
	return NovoPipeline(catalogoTeste(t, nil), NovoMySQLDialect(), TabelaExecucaoPadrao, log.Default())
}

func TestProcessarFraseCompleta(t *testing.T) {
	pipeline := pipelineTeste(t)

	consulta, err := pipeline.Processar(context.Background(), "quanto foi pago com obras e instalações")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if len(consulta.Campos) != 1 || consulta.Campos[0] != "despesas_pagas" {
		t.Errorf("campos inesperados: %v", consulta.Campos)
	}
	elementos := consulta.Filtros["elemento"]
	if len(elementos) != 1 || elementos[0].Codigo != "51" {
		t.Fatalf("elemento não resolvido: %v", consulta.Filtros)
	}
	if !strings.Contains(consulta.SQL, "SUM(`despesas_pagas`) AS soma_despesas_pagas") {
		t.Errorf("coluna de valor ausente do SQL: %s", consulta.SQL)
	}
	if !strings.Contains(consulta.SQL, "`elemento` IN (?)") {
		t.Errorf("filtro de elemento ausente do SQL: %s", consulta.SQL)
	}
	if len(consulta.Params) != 1 || consulta.Params[0] != "51 - Obras e Instalações" {
		t.Errorf("parâmetros inesperados: %v", consulta.Params)
	}
}

func TestProcessarCodigoComGatilho(t *testing.T) {
	pipeline := pipelineTeste(t)

	consulta, err := pipeline.Processar(context.Background(), "despesas empenhadas pela unidade gestora 140001 na fonte 100")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	esperados := []string{"unidade_gestora", "fonte", "despesas_empenhadas"}
	if len(consulta.Campos) != len(esperados) {
		t.Fatalf("campos inesperados: %v", consulta.Campos)
	}
	for i, campo := range esperados {
		if consulta.Campos[i] != campo {
			t.Errorf("campo %d: esperava %s, obteve %s", i, campo, consulta.Campos[i])
		}
	}
	if len(consulta.Filtros["unidade_gestora"]) != 1 {
		t.Errorf("unidade gestora não resolvida: %v", consulta.Filtros)
	}
	if len(consulta.Filtros["fonte"]) != 1 {
		t.Errorf("fonte não resolvida: %v", consulta.Filtros)
	}
}

func TestProcessarFraseVazia(t *testing.T) {
	pipeline := pipelineTeste(t)

	_, err := pipeline.Processar(context.Background(), "   ")
	var cerr *ConsultaError
	if !errors.As(err, &cerr) || cerr.Code != ErrCodeInvalidRequest {
		t.Fatalf("esperava InvalidRequest para frase vazia, obteve %v", err)
	}
}

func TestProcessarSemColunaDeValor(t *testing.T) {
	pipeline := pipelineTeste(t)

	_, err := pipeline.Processar(context.Background(), "consulta da funcao 12")
	var cerr *ConsultaError
	if !errors.As(err, &cerr) || cerr.Code != ErrCodeInvalidRequest {
		t.Fatalf("esperava InvalidRequest sem coluna de valor, obteve %v", err)
	}
}

func TestProcessarContextoCancelado(t *testing.T) {
	pipeline := pipelineTeste(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Processar(ctx, "quanto foi pago na fonte 100")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("esperava context.Canceled, obteve %v", err)
	}
}

type corretorTeste struct{}

func (corretorTeste) Corrigir(frase string) string {
	return strings.ReplaceAll(frase, "pgo", "pago")
}

func TestProcessarComCorretor(t *testing.T) {
	pipeline := pipelineTeste(t).ComCorretor(corretorTeste{})

	consulta, err := pipeline.Processar(context.Background(), "quanto foi pgo na fonte 100")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if consulta.Frase != "quanto foi pago na fonte 100" {
		t.Errorf("correção não aplicada: %s", consulta.Frase)
	}
	if !contemCampo(consulta.Campos, "despesas_pagas") {
		t.Errorf("campos inesperados após correção: %v", consulta.Campos)
	}
}
