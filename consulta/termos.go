package consulta

import "regexp"

// ExtratorTermos identifica quais chaves canônicas estão presentes na frase
// já traduzida. Cada chave é testada isolada, com âncoras de palavra inteira,
// para que "despesas_pagas" não seja confundida com "despesas_exercicio_pagas".
type ExtratorTermos struct {
	chaves  []string
	padroes map[string]*regexp.Regexp
}

// NovoExtratorTermos cria um extrator para a lista de chaves configurada
func NovoExtratorTermos(chaves []string) *ExtratorTermos {
	padroes := make(map[string]*regexp.Regexp, len(chaves))
	for _, chave := range chaves {
		padroes[chave] = regexp.MustCompile(`\b` + regexp.QuoteMeta(chave) + `\b`)
	}
	return &ExtratorTermos{chaves: chaves, padroes: padroes}
}

// IdentificarParametros retorna o subconjunto de chaves presentes no texto,
// na ordem em que foram configuradas. Entrada vazia retorna lista vazia.
func (e *ExtratorTermos) IdentificarParametros(textoNormalizado string) []string {
	encontradas := make([]string, 0)
	if textoNormalizado == "" {
		return encontradas
	}

	for _, chave := range e.chaves {
		if e.padroes[chave].MatchString(textoNormalizado) {
			encontradas = append(encontradas, chave)
		}
	}
	return encontradas
}
