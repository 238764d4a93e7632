package consulta

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	rePontuacao = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	reEspacos   = regexp.MustCompile(`\s+`)
)

// Normalizar prepara o texto para comparação:
// - lowercase
// - remove acentos (decomposição NFD + remoção de marcas combinantes)
// - trim
func Normalizar(texto string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	resultado, _, err := transform.String(t, strings.ToLower(texto))
	if err != nil {
		return strings.TrimSpace(strings.ToLower(texto))
	}
	return strings.TrimSpace(resultado)
}

// RemoverPontuacao remove tudo que não for letra, número ou espaço
func RemoverPontuacao(texto string) string {
	return strings.TrimSpace(rePontuacao.ReplaceAllString(texto, ""))
}

// NormalizarCodigo remove zeros à esquerda, aceitando "01" ou "1"
func NormalizarCodigo(codigo string) string {
	normalizado := strings.TrimLeft(strings.TrimSpace(codigo), "0")
	if normalizado == "" {
		return "0"
	}
	return normalizado
}

// ContemPalavra verifica se a palavra ocorre no texto como palavra inteira
func ContemPalavra(texto, palavra string) bool {
	if palavra == "" {
		return false
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(palavra) + `\b`)
	return re.MatchString(texto)
}

// removerTermos remove do texto, já normalizado, as palavras do conjunto
func removerTermos(texto string, termos map[string]bool) string {
	if len(termos) == 0 {
		return texto
	}
	campos := strings.Fields(texto)
	mantidos := make([]string, 0, len(campos))
	for _, campo := range campos {
		if !termos[campo] {
			mantidos = append(mantidos, campo)
		}
	}
	return strings.Join(mantidos, " ")
}

// removerTrecho remove todas as ocorrências do trecho (case-insensitive)
// e recolhe os espaços duplicados deixados pela remoção
func removerTrecho(texto, trecho string) string {
	if trecho == "" {
		return texto
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(trecho))
	limpo := re.ReplaceAllString(texto, " ")
	return strings.TrimSpace(reEspacos.ReplaceAllString(limpo, " "))
}

// conjunto transforma uma lista de palavras em um set normalizado
func conjunto(palavras []string) map[string]bool {
	s := make(map[string]bool, len(palavras))
	for _, p := range palavras {
		s[Normalizar(p)] = true
	}
	return s
}
