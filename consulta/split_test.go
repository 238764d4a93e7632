package consulta

import (
	"strings"
	"testing"
)

func TestQuebrarFrase(t *testing.T) {
	divisor := NovoDivisor(ChavesConsulta())

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "uma chave no meio",
			input:    "quanto foi despesas_pagas com obras",
			expected: []string{"quanto foi", "despesas_pagas com obras"},
		},
		{
			name:  "duas chaves",
			input: "despesas_pagas pela unidade_gestora 140001",
			expected: []string{
				"despesas_pagas pela",
				"unidade_gestora 140001",
			},
		},
		{
			name:     "nenhuma chave",
			input:    "quanto foi gasto com obras",
			expected: []string{"quanto foi gasto com obras"},
		},
		{
			name:     "entrada vazia",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := divisor.QuebrarFrase(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("QuebrarFrase(%q) = %v, esperado %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("fragmento %d = %q, esperado %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestQuebrarFraseCoberturaTotal(t *testing.T) {
	divisor := NovoDivisor(ChavesConsulta())

	entradas := []string{
		"quanto foi despesas_pagas pela unidade_gestora 140001 na fonte 100",
		"dotacao_inicial do programa 0042 e da acao 2077",
		"sem nenhuma chave presente",
	}

	for _, entrada := range entradas {
		fragmentos := divisor.QuebrarFrase(entrada)

		// A concatenação dos fragmentos reconstrói a frase, a menos de espaços
		reconstruida := strings.Join(fragmentos, " ")
		esperada := strings.Join(strings.Fields(entrada), " ")
		if strings.Join(strings.Fields(reconstruida), " ") != esperada {
			t.Errorf("cobertura quebrada para %q: %q", entrada, reconstruida)
		}
	}
}
