package consulta

import (
	"testing"
)

func TestTraduzirSinonimos(t *testing.T) {
	tradutor := NovoTradutor(DicionarioPadrao())

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sinonimo simples",
			input:    "unidade gestora",
			expected: "unidade_gestora",
		},
		{
			name:     "sinonimo com acento",
			input:    "unidade orçamentária",
			expected: "unidade_orcamentaria",
		},
		{
			name:     "frase completa",
			input:    "quanto foi pago pela unidade gestora 140001",
			expected: "quanto foi despesas_pagas pela unidade_gestora 140001",
		},
		{
			name:     "sigla",
			input:    "despesas da UG 140001",
			expected: "despesas da unidade_gestora 140001",
		},
		{
			name:     "entrada vazia",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tradutor.Traduzir(tt.input)
			if result != tt.expected {
				t.Errorf("Traduzir(%q) = %q, esperado %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTraduzirMaisEspecificoVence(t *testing.T) {
	tradutor := NovoTradutor(DicionarioPadrao())

	// A frase mais longa precisa vencer o sinônimo curto que é seu prefixo
	result := tradutor.Traduzir("pago no exercicio")
	if result != "despesas_exercicio_pagas" {
		t.Errorf("Traduzir(\"pago no exercicio\") = %q, esperado %q",
			result, "despesas_exercicio_pagas")
	}

	result = tradutor.Traduzir("valor pago em 2024")
	if result != "valor despesas_pagas em 2024" {
		t.Errorf("Traduzir(\"valor pago em 2024\") = %q", result)
	}
}

func TestTraduzirIdempotente(t *testing.T) {
	tradutor := NovoTradutor(DicionarioPadrao())

	entradas := []string{
		"quanto foi pago no exercicio pela unidade gestora 140001",
		"despesas empenhadas por fonte de recurso",
		"dotação inicial do programa 0042",
	}

	for _, entrada := range entradas {
		primeira := tradutor.Traduzir(entrada)
		segunda := tradutor.Traduzir(primeira)
		if primeira != segunda {
			t.Errorf("tradução não idempotente para %q: %q != %q", entrada, primeira, segunda)
		}
	}
}
