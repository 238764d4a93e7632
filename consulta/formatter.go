package consulta

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoedaZero é o texto emitido para valores nulos ou não numéricos
const MoedaZero = "R$ 0,00"

// FormatadorMoeda renderiza os agregados monetários no formato pt-BR
type FormatadorMoeda struct {
	printer *message.Printer
	colunas map[string]bool
}

// NovoFormatadorMoeda cria o formatador para as colunas soma_ das colunas de
// valor conhecidas
func NovoFormatadorMoeda() *FormatadorMoeda {
	colunas := make(map[string]bool, len(ColunasValor))
	for _, coluna := range ColunasValor {
		colunas["soma_"+coluna] = true
	}
	return &FormatadorMoeda{
		printer: message.NewPrinter(language.BrazilianPortuguese),
		colunas: colunas,
	}
}

// Formatar converte um valor numérico em moeda pt-BR; nulo ou inválido vira
// R$ 0,00
func (f *FormatadorMoeda) Formatar(valor any) string {
	numero, ok := paraFloat(valor)
	if !ok {
		return MoedaZero
	}
	return f.printer.Sprintf("R$ %v", number.Decimal(numero,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatarLinhas substitui, em cada linha, os agregados monetários pelo
// texto formatado. As demais colunas não são tocadas.
func (f *FormatadorMoeda) FormatarLinhas(resultado *ResultadoConsulta) {
	if resultado == nil {
		return
	}
	for _, linha := range resultado.Linhas {
		for coluna, valor := range linha {
			if f.colunas[strings.ToLower(coluna)] {
				linha[coluna] = f.Formatar(valor)
			}
		}
	}
}

// paraFloat aceita os tipos numéricos usuais dos drivers de banco
func paraFloat(valor any) (float64, bool) {
	switch v := valor.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	numero, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return numero, true
}
