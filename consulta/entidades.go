package consulta

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ColunasEntidade lista as entidades de referência na ordem canônica das
// colunas do banco. SELECT e GROUP BY são sempre emitidos nessa ordem.
var ColunasEntidade = []string{
	"poder",
	"unidade_gestora",
	"unidade_orcamentaria",
	"eixo",
	"programa",
	"acao",
	"ods",
	"emenda",
	"funcao",
	"categoria_despesa",
	"grupo_despesa",
	"elemento",
	"natureza",
	"fonte",
	"convenio_receita",
	"convenio_despesa",
	"contrato",
	"credor",
}

// ColunasValor lista as colunas monetárias agregáveis, na ordem canônica
var ColunasValor = []string{
	"dotacao_inicial",
	"despesas_empenhadas",
	"despesas_liquidadas",
	"despesas_pagas",
	"despesas_exercicio_pagas",
}

// NiveisHierarquia define a profundidade de cada entidade hierárquica.
// Filtros dessas entidades descrevem um mesmo ramo e são combinados com AND.
var NiveisHierarquia = map[string]int{
	"poder":                1,
	"unidade_gestora":      2,
	"unidade_orcamentaria": 3,
}

// OrdemExtracao define a ordem de prioridade da extração em cascata: códigos
// longos e inequívocos primeiro, entidades genéricas por último
var OrdemExtracao = []string{
	"contrato",
	"convenio_receita",
	"convenio_despesa",
	"credor",
	"unidade_gestora",
	"natureza",
	"unidade_orcamentaria",
	"programa",
	"acao",
	"fonte",
	"elemento",
	"funcao",
	"ods",
	"eixo",
	"poder",
	"grupo_despesa",
	"categoria_despesa",
	"emenda",
}

// ChavesConsulta retorna o conjunto de campos aceitos em uma consulta:
// entidades e colunas de valor
func ChavesConsulta() []string {
	chaves := make([]string, 0, len(ColunasEntidade)+len(ColunasValor))
	chaves = append(chaves, ColunasEntidade...)
	chaves = append(chaves, ColunasValor...)
	return chaves
}

// ColunaEntidadeValida informa se o campo é uma entidade conhecida
func ColunaEntidadeValida(campo string) bool {
	for _, coluna := range ColunasEntidade {
		if coluna == campo {
			return true
		}
	}
	return false
}

// ColunaValorValida informa se o campo é uma coluna monetária conhecida
func ColunaValorValida(campo string) bool {
	for _, coluna := range ColunasValor {
		if coluna == campo {
			return true
		}
	}
	return false
}

// codigoProgramaElegivel restringe os códigos de programa que disparam busca:
// com zero à esquerda, abaixo de 1000 ou o programa especial 9999. Códigos de
// quatro dígitos fora dessas faixas quase sempre são anos ou códigos de ação.
func codigoProgramaElegivel(codigo string) bool {
	if strings.HasPrefix(codigo, "0") {
		return true
	}
	numero, err := strconv.Atoi(codigo)
	if err != nil {
		return false
	}
	return numero < 1000 || numero == 9999
}

// ConfiguracoesEntidade retorna a configuração de extração de cada entidade
// de referência, exceto credor, que consulta o banco em vez de tabela em
// memória
func ConfiguracoesEntidade() map[string]EntidadeConfig {
	return map[string]EntidadeConfig{
		"poder": {
			Nome:              "poder",
			CodigoPadrao:      `\d{1,2}`,
			GatilhoEntidade:   "poder",
			CodigoNormalizado: true,
			PercentualPadrao:  0.7,
			Sensibilidade:     []RegraSensibilidade{{Palavra: "poder", Percentual: 0.5}},
		},
		"unidade_gestora": {
			Nome:             "unidade_gestora",
			CodigoPadrao:     `\d{2}0\d{3}`,
			UsaMnemonico:     true,
			Stopwords:        []string{"estado", "estadual"},
			RemoverPontuacao: true,
			PercentualPadrao: 0.6,
		},
		"unidade_orcamentaria": {
			Nome:             "unidade_orcamentaria",
			CodigoPadrao:     `\d{5}`,
			Stopwords:        []string{"estado"},
			PercentualPadrao: 0.6,
		},
		"eixo": {
			Nome:              "eixo",
			CodigoPadrao:      `\d{1,2}`,
			GatilhoEntidade:   "eixo",
			CodigoNormalizado: true,
			PercentualPadrao:  0.5,
		},
		"programa": {
			Nome:                           "programa",
			CodigoPadrao:                   `\d{4}`,
			SuprimirSe:                     "acao",
			CodigoElegivel:                 codigoProgramaElegivel,
			DescartarDescricaoSeInelegivel: true,
			PalavraInteira:                 true,
			PercentualPadrao:               0.7,
		},
		"acao": {
			Nome:             "acao",
			CodigoPadrao:     `\d{4}`,
			SuprimirSe:       "programa",
			PalavraInteira:   true,
			PercentualPadrao: 0.7,
			Sensibilidade:    []RegraSensibilidade{{Palavra: "acao", Percentual: 0.5}},
		},
		"ods": {
			Nome:              "ods",
			CodigoPadrao:      `\d{1,2}`,
			GatilhoCodigo:     "ods",
			CodigoNormalizado: true,
			PercentualPadrao:  0.7,
			Sensibilidade:     []RegraSensibilidade{{Palavra: "ods", Percentual: 0.5}},
		},
		"emenda": {
			Nome:             "emenda",
			CodigoPorToken:   true,
			GatilhoCodigo:    "emenda",
			MinLetras:        2,
			RemoverPontuacao: true,
			PercentualPadrao: 0.7,
			Sensibilidade:    []RegraSensibilidade{{Palavra: "emenda", Percentual: 0.5}},
		},
		"funcao": {
			Nome:              "funcao",
			CodigoPadrao:      `\d{1,2}`,
			GatilhoCodigo:     "funcao",
			CodigoNormalizado: true,
			PercentualPadrao:  0.7,
			Sensibilidade:     []RegraSensibilidade{{Palavra: "funcao", Percentual: 0.5}},
		},
		"categoria_despesa": {
			Nome:             "categoria_despesa",
			CodigoPadrao:     `\d`,
			GatilhoCodigo:    "categoria_despesa",
			PercentualPadrao: 0.6,
		},
		"grupo_despesa": {
			Nome:             "grupo_despesa",
			CodigoPadrao:     `\d`,
			GatilhoCodigo:    "grupo_despesa",
			PercentualPadrao: 0.6,
		},
		"elemento": {
			Nome:             "elemento",
			CodigoPadrao:     `\d{2}`,
			GatilhoCodigo:    "elemento",
			PercentualPadrao: 0.7,
		},
		"natureza": {
			Nome:             "natureza",
			CodigoPadrao:     `\d{2}[1-9]\d{3}`,
			PalavrasMantidas: []string{"nao"},
			PercentualPadrao: 0.7,
			Sensibilidade:    []RegraSensibilidade{{Palavra: "natureza", Percentual: 0.5}},
		},
		"fonte": {
			Nome:             "fonte",
			CodigoPadrao:     `\d{3}`,
			PalavrasMantidas: []string{"nao"},
			PercentualPadrao: 0.7,
		},
		"convenio_receita": {
			Nome:               "convenio_receita",
			CodigoPadrao:       `\d{6}`,
			GatilhoEntidade:    "convenio_receita",
			CodigoEntreDigitos: true,
			SomenteCodigo:      true,
		},
		"convenio_despesa": {
			Nome:               "convenio_despesa",
			CodigoPadrao:       `\d{6}`,
			GatilhoEntidade:    "convenio_despesa",
			CodigoEntreDigitos: true,
			SomenteCodigo:      true,
		},
		"contrato": {
			Nome:               "contrato",
			CodigoPadrao:       `\d{8}`,
			GatilhoEntidade:    "contrato",
			CodigoEntreDigitos: true,
			SomenteCodigo:      true,
		},
	}
}

// ExtratorFiltro é a interface comum dos extratores de entidade. Credor a
// implementa consultando o banco; as demais entidades, via tabelas em
// memória.
type ExtratorFiltro interface {
	Nome() string
	Extrair(ctx context.Context, frase string) ([]Resultado, error)
}

// Catalogo agrupa os extratores de todas as entidades na ordem de prioridade
// da extração em cascata
type Catalogo struct {
	extratores []ExtratorFiltro
	tabelas    map[string]*Tabela
}

// NovoCatalogo carrega as tabelas de referência de um diretório de CSVs
// (um arquivo <entidade>.csv por entidade) e monta os extratores. Falha na
// carga de qualquer tabela é fatal.
func NovoCatalogo(dir string, store CredorStore) (*Catalogo, error) {
	configs := ConfiguracoesEntidade()
	tabelas := make(map[string]*Tabela, len(configs))

	for nome, cfg := range configs {
		caminho := filepath.Join(dir, nome+".csv")
		tabela, err := CarregarTabelaCSV(caminho, validadorCarga(cfg), cfg.UsaMnemonico)
		if err != nil {
			return nil, LoadFailureError(nome, err)
		}
		tabelas[nome] = tabela
	}
	return NovoCatalogoComTabelas(tabelas, store)
}

// NovoCatalogoComTabelas monta o catálogo a partir de tabelas já carregadas
func NovoCatalogoComTabelas(tabelas map[string]*Tabela, store CredorStore) (*Catalogo, error) {
	configs := ConfiguracoesEntidade()
	extratores := make([]ExtratorFiltro, 0, len(OrdemExtracao))

	for _, nome := range OrdemExtracao {
		if nome == "credor" {
			if store != nil {
				extratores = append(extratores, NovoCredorExtrator(store))
			}
			continue
		}
		cfg, ok := configs[nome]
		if !ok {
			return nil, fmt.Errorf("entidade sem configuração: %s", nome)
		}
		tabela, ok := tabelas[nome]
		if !ok {
			return nil, LoadFailureError(nome, fmt.Errorf("tabela não carregada"))
		}
		extratores = append(extratores, NovoExtrator(cfg, tabela))
	}

	return &Catalogo{extratores: extratores, tabelas: tabelas}, nil
}

// Extratores retorna os extratores na ordem de prioridade
func (c *Catalogo) Extratores() []ExtratorFiltro {
	return c.extratores
}

// Tabela retorna a tabela de referência de uma entidade, se carregada
func (c *Catalogo) Tabela(nome string) (*Tabela, bool) {
	tabela, ok := c.tabelas[nome]
	return tabela, ok
}

// validadorCarga devolve o padrão de validação de código usado na carga do
// CSV da entidade. Entidades com código normalizado aceitam qualquer código
// numérico na tabela, já que zeros à esquerda variam entre as fontes.
func validadorCarga(cfg EntidadeConfig) *regexp.Regexp {
	if cfg.CodigoPorToken || cfg.CodigoPadrao == "" {
		return nil
	}
	if cfg.CodigoNormalizado {
		return regexp.MustCompile(`^\d+$`)
	}
	return regexp.MustCompile("^(?:" + cfg.CodigoPadrao + ")$")
}
