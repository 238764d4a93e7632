package consulta

import (
	"context"
	"regexp"
	"strings"
)

// RegraSensibilidade rebaixa (ou eleva) o percentual mínimo de casamento de
// descrição quando a palavra aparece na frase. A primeira regra que casar
// vence.
type RegraSensibilidade struct {
	Palavra    string
	Percentual float64
}

// EntidadeConfig descreve o comportamento de extração de uma entidade de
// referência. Toda a variação entre entidades (formato de código, gatilhos,
// stopwords, percentuais) vive aqui; o algoritmo em Extrator é único.
type EntidadeConfig struct {
	// Nome é a chave canônica da entidade (coluna no banco)
	Nome string

	// CodigoPadrao valida uma sequência de dígitos candidata a código.
	// Vazio desabilita a fase de código.
	CodigoPadrao string

	// CodigoEntreDigitos troca o limite de palavra pelo limite de dígito:
	// apenas um dígito vizinho invalida a sequência (contratos e convênios
	// aparecem colados a letras, ex.: "nº12345678")
	CodigoEntreDigitos bool

	// GatilhoEntidade condiciona o matcher inteiro à presença da palavra
	GatilhoEntidade string

	// GatilhoCodigo condiciona apenas a fase de código à presença da palavra
	GatilhoCodigo string

	// SuprimirSe desativa o matcher quando a palavra de uma entidade
	// concorrente aparece na frase (programa suprime ação e vice-versa)
	SuprimirSe string

	// CodigoElegivel restringe quais códigos sintaticamente válidos entram
	// na busca. Retornar false marca o código como inelegível.
	CodigoElegivel func(codigo string) bool

	// DescartarDescricaoSeInelegivel pula a fase de descrição quando algum
	// código inelegível foi visto na frase
	DescartarDescricaoSeInelegivel bool

	// CodigoNormalizado compara códigos sem zeros à esquerda
	CodigoNormalizado bool

	// CodigoPorToken casa o código literal da tabela como token exato da
	// frase, em vez de extrair sequências de dígitos (emendas usam códigos
	// alfanuméricos)
	CodigoPorToken bool

	// SomenteCodigo desabilita a fase de descrição
	SomenteCodigo bool

	// UsaMnemonico habilita a fase intermediária de busca por mnemônico
	UsaMnemonico bool

	// MinLetras é o tamanho mínimo exclusivo das palavras de descrição
	// consideradas no casamento (padrão 3: só palavras com 4+ letras)
	MinLetras int

	// PalavrasMantidas entram no casamento mesmo abaixo do tamanho mínimo
	PalavrasMantidas []string

	// Stopwords são removidas da frase e das descrições antes do casamento
	Stopwords []string

	// RemoverPontuacao limpa pontuação da frase e das descrições
	RemoverPontuacao bool

	// PalavraInteira exige limite de palavra no casamento de cada termo da
	// descrição; caso contrário basta substring
	PalavraInteira bool

	// PercentualPadrao é o percentual mínimo de palavras da descrição que
	// precisam aparecer na frase
	PercentualPadrao float64

	// Sensibilidade ajusta o percentual conforme o contexto da frase
	Sensibilidade []RegraSensibilidade
}

// Extrator aplica a configuração de uma entidade sobre sua tabela de
// referência. É seguro para uso concorrente após a construção.
type Extrator struct {
	cfg       EntidadeConfig
	registros []Registro
	validador *regexp.Regexp
	stopwords map[string]bool
	mantidas  map[string]bool

	porCodigo    map[string]Registro
	porMnemonico map[string]Registro
}

// NovoExtrator indexa a tabela de referência conforme a configuração
func NovoExtrator(cfg EntidadeConfig, tabela *Tabela) *Extrator {
	if cfg.MinLetras == 0 {
		cfg.MinLetras = 3
	}

	e := &Extrator{
		cfg:          cfg,
		registros:    tabela.Registros(),
		stopwords:    conjunto(cfg.Stopwords),
		mantidas:     conjunto(cfg.PalavrasMantidas),
		porCodigo:    make(map[string]Registro, tabela.Tamanho()),
		porMnemonico: make(map[string]Registro),
	}
	if cfg.CodigoPadrao != "" {
		e.validador = regexp.MustCompile("^(?:" + cfg.CodigoPadrao + ")$")
	}

	for _, registro := range e.registros {
		chave := registro.Codigo
		if cfg.CodigoNormalizado {
			chave = NormalizarCodigo(chave)
		}
		e.porCodigo[chave] = registro
		if cfg.UsaMnemonico && registro.Mnemonico != "" {
			e.porMnemonico[Normalizar(registro.Mnemonico)] = registro
		}
	}
	return e
}

// Nome retorna a chave canônica da entidade
func (e *Extrator) Nome() string {
	return e.cfg.Nome
}

// Extrair localiza na frase os registros da entidade, primeiro por código,
// depois por mnemônico e por fim por casamento de descrição. Resultados de
// código carregam o próprio código como trecho encontrado; resultados de
// descrição carregam a frase inteira.
func (e *Extrator) Extrair(ctx context.Context, frase string) ([]Resultado, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resultados := make([]Resultado, 0)
	texto := Normalizar(frase)
	if texto == "" {
		return resultados, nil
	}
	if e.cfg.RemoverPontuacao {
		texto = RemoverPontuacao(texto)
	}

	if e.cfg.GatilhoEntidade != "" && !ContemPalavra(texto, e.cfg.GatilhoEntidade) {
		return resultados, nil
	}
	if e.cfg.SuprimirSe != "" && ContemPalavra(texto, e.cfg.SuprimirSe) {
		return resultados, nil
	}

	vistos := make(map[string]bool)
	codigoInelegivel := false

	if e.cfg.CodigoPorToken {
		resultados = e.extrairCodigosPorToken(texto, resultados, vistos)
	} else if e.validador != nil {
		resultados, codigoInelegivel = e.extrairCodigos(texto, resultados, vistos)
	}

	if e.cfg.UsaMnemonico {
		resultados = e.extrairMnemonicos(texto, resultados, vistos)
	}

	if e.cfg.SomenteCodigo {
		return resultados, nil
	}
	if e.cfg.DescartarDescricaoSeInelegivel && codigoInelegivel {
		return resultados, nil
	}

	resultados = e.extrairDescricoes(frase, texto, resultados, vistos)
	return resultados, nil
}

// extrairCodigos varre as sequências de dígitos da frase e consulta a tabela
func (e *Extrator) extrairCodigos(texto string, resultados []Resultado, vistos map[string]bool) ([]Resultado, bool) {
	if e.cfg.GatilhoCodigo != "" && !ContemPalavra(texto, e.cfg.GatilhoCodigo) {
		return resultados, false
	}

	inelegivel := false
	for _, sequencia := range sequenciasDigitos(texto, e.cfg.CodigoEntreDigitos) {
		if !e.validador.MatchString(sequencia) {
			continue
		}
		if e.cfg.CodigoElegivel != nil && !e.cfg.CodigoElegivel(sequencia) {
			inelegivel = true
			continue
		}

		chave := sequencia
		if e.cfg.CodigoNormalizado {
			chave = NormalizarCodigo(chave)
		}
		registro, ok := e.porCodigo[chave]
		if !ok || vistos[registro.Codigo] {
			continue
		}
		vistos[registro.Codigo] = true
		resultados = append(resultados, Resultado{
			Codigo:           registro.Codigo,
			Descricao:        registro.Descricao,
			TrechoEncontrado: sequencia,
		})
	}
	return resultados, inelegivel
}

// extrairCodigosPorToken casa o código de cada registro como token exato
func (e *Extrator) extrairCodigosPorToken(texto string, resultados []Resultado, vistos map[string]bool) []Resultado {
	if e.cfg.GatilhoCodigo != "" && !ContemPalavra(texto, e.cfg.GatilhoCodigo) {
		return resultados
	}

	tokens := conjunto(strings.Fields(texto))
	for _, registro := range e.registros {
		if vistos[registro.Codigo] {
			continue
		}
		codigo := Normalizar(registro.Codigo)
		if e.cfg.RemoverPontuacao {
			codigo = RemoverPontuacao(codigo)
		}
		if !tokens[codigo] {
			continue
		}
		vistos[registro.Codigo] = true
		resultados = append(resultados, Resultado{
			Codigo:           registro.Codigo,
			Descricao:        registro.Descricao,
			TrechoEncontrado: codigo,
		})
	}
	return resultados
}

// extrairMnemonicos casa cada token da frase contra o índice de mnemônicos
func (e *Extrator) extrairMnemonicos(texto string, resultados []Resultado, vistos map[string]bool) []Resultado {
	for _, token := range strings.Fields(texto) {
		registro, ok := e.porMnemonico[token]
		if !ok || vistos[registro.Codigo] {
			continue
		}
		vistos[registro.Codigo] = true
		resultados = append(resultados, Resultado{
			Codigo:           registro.Codigo,
			Descricao:        registro.Descricao,
			TrechoEncontrado: token,
		})
	}
	return resultados
}

// extrairDescricoes casa as palavras significativas de cada descrição contra
// a frase e aceita o registro quando a proporção de palavras presentes atinge
// o percentual mínimo
func (e *Extrator) extrairDescricoes(frase, texto string, resultados []Resultado, vistos map[string]bool) []Resultado {
	texto = removerTermos(texto, e.stopwords)
	if strings.TrimSpace(texto) == "" {
		return resultados
	}
	percentualMinimo := e.percentualMinimo(texto)

	for _, registro := range e.registros {
		if vistos[registro.Codigo] {
			continue
		}
		descricao := Normalizar(registro.Descricao)
		if e.cfg.RemoverPontuacao {
			descricao = RemoverPontuacao(descricao)
		}

		palavras := e.palavrasSignificativas(descricao)
		if len(palavras) == 0 {
			continue
		}

		encontradas := 0
		for _, palavra := range palavras {
			if e.contemTermo(texto, palavra) {
				encontradas++
			}
		}
		if float64(encontradas)/float64(len(palavras)) < percentualMinimo {
			continue
		}

		vistos[registro.Codigo] = true
		resultados = append(resultados, Resultado{
			Codigo:           registro.Codigo,
			Descricao:        registro.Descricao,
			TrechoEncontrado: frase,
		})
	}
	return resultados
}

// palavrasSignificativas filtra as palavras da descrição que participam do
// casamento: acima do tamanho mínimo ou explicitamente mantidas, e fora das
// stopwords
func (e *Extrator) palavrasSignificativas(descricao string) []string {
	palavras := make([]string, 0)
	for _, palavra := range strings.Fields(descricao) {
		if e.stopwords[palavra] {
			continue
		}
		if len([]rune(palavra)) <= e.cfg.MinLetras && !e.mantidas[palavra] {
			continue
		}
		palavras = append(palavras, palavra)
	}
	return palavras
}

func (e *Extrator) contemTermo(texto, palavra string) bool {
	if e.cfg.PalavraInteira {
		return ContemPalavra(texto, palavra)
	}
	return strings.Contains(texto, palavra)
}

// percentualMinimo resolve o percentual efetivo conforme as regras de
// sensibilidade; a primeira palavra presente na frase vence
func (e *Extrator) percentualMinimo(texto string) float64 {
	for _, regra := range e.cfg.Sensibilidade {
		if ContemPalavra(texto, regra.Palavra) {
			return regra.Percentual
		}
	}
	return e.cfg.PercentualPadrao
}

// sequenciasDigitos extrai as sequências maximais de dígitos da frase. No
// modo padrão a sequência precisa estar isolada por limite de palavra; no
// modo entre dígitos apenas um dígito vizinho a invalida, o que permite
// códigos colados a prefixos como "nº".
func sequenciasDigitos(texto string, entreDigitos bool) []string {
	runas := []rune(texto)
	sequencias := make([]string, 0)

	inicio := -1
	for i := 0; i <= len(runas); i++ {
		digito := i < len(runas) && runas[i] >= '0' && runas[i] <= '9'
		if digito {
			if inicio < 0 {
				inicio = i
			}
			continue
		}
		if inicio < 0 {
			continue
		}
		if entreDigitos || bordaPalavra(runas, inicio, i) {
			sequencias = append(sequencias, string(runas[inicio:i]))
		}
		inicio = -1
	}
	return sequencias
}

// bordaPalavra verifica se a faixa [inicio, fim) está isolada por caracteres
// que não formam palavra
func bordaPalavra(runas []rune, inicio, fim int) bool {
	if inicio > 0 && caracterePalavra(runas[inicio-1]) {
		return false
	}
	if fim < len(runas) && caracterePalavra(runas[fim]) {
		return false
	}
	return true
}

func caracterePalavra(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
