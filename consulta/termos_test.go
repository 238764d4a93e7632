package consulta

import (
	"reflect"
	"testing"
)

func TestIdentificarParametros(t *testing.T) {
	extrator := NovoExtratorTermos(ChavesConsulta())

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "coluna de valor",
			input:    "quanto foi despesas_pagas com obras",
			expected: []string{"despesas_pagas"},
		},
		{
			name:     "entidade e valor",
			input:    "despesas_empenhadas por unidade_gestora",
			expected: []string{"unidade_gestora", "despesas_empenhadas"},
		},
		{
			name:     "nenhuma chave",
			input:    "quanto foi gasto com obras",
			expected: []string{},
		},
		{
			name:     "entrada vazia",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extrator.IdentificarParametros(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("IdentificarParametros(%q) = %v, esperado %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIdentificarParametrosPalavraInteira(t *testing.T) {
	extrator := NovoExtratorTermos(ChavesConsulta())

	// despesas_pagas é substring de despesas_exercicio_pagas e não pode ser
	// reportada junto
	result := extrator.IdentificarParametros("total de despesas_exercicio_pagas em 2024")

	for _, chave := range result {
		if chave == "despesas_pagas" {
			t.Errorf("despesas_pagas reportada indevidamente em %v", result)
		}
	}
	if !contemCampo(result, "despesas_exercicio_pagas") {
		t.Errorf("despesas_exercicio_pagas não reportada: %v", result)
	}
}
