package consulta

import (
	"fmt"
	"strings"
)

// LimiteLinhasConsulta limita toda consulta gerada, protegendo o consumidor
// de conjuntos de resultado sem fim
const LimiteLinhasConsulta = 20

// TabelaExecucaoPadrao é a tabela de agregação consultada por padrão
const TabelaExecucaoPadrao = "execucao"

// prioridadeOrdenacao define, para consultas com credor, a ordem de
// preferência dos agregados usados no ORDER BY descendente
var prioridadeOrdenacao = []string{
	"soma_despesas_pagas",
	"soma_despesas_exercicio_pagas",
	"soma_despesas_liquidadas",
	"soma_despesas_empenhadas",
	"soma_dotacao_inicial",
}

// ConsultaBuilder monta a consulta de agregação parametrizada a partir dos
// campos pedidos e dos filtros resolvidos. Identificadores só entram no SQL
// depois de validados contra a lista fixa de colunas; valores sempre viram
// parâmetros.
type ConsultaBuilder struct {
	dialeto Dialeto
	tabela  string
}

// NovoConsultaBuilder cria o builder. Tabela vazia assume a tabela padrão de
// execução.
func NovoConsultaBuilder(dialeto Dialeto, tabela string) *ConsultaBuilder {
	if tabela == "" {
		tabela = TabelaExecucaoPadrao
	}
	return &ConsultaBuilder{dialeto: dialeto, tabela: tabela}
}

// BuildQuery valida os campos e monta SELECT, WHERE, GROUP BY, ORDER BY e
// LIMIT. Colunas de entidade saem sempre na ordem canônica da hierarquia;
// colunas de valor, na ordem pedida, como SUM(coluna) AS soma_coluna.
func (b *ConsultaBuilder) BuildQuery(campos []string, filtros FiltroMap) (*ConsultaSQL, error) {
	if err := validarCampos(campos); err != nil {
		return nil, err
	}

	valores := colunasValorPedidas(campos)
	if len(valores) == 0 {
		return nil, InvalidRequestError("a consulta precisa de ao menos uma coluna de valor")
	}

	entidades := entidadesFinais(campos, filtros)
	if len(entidades) == 0 {
		return nil, InvalidRequestError("a consulta precisa de ao menos uma entidade")
	}

	selecao := make([]string, 0, len(entidades)+len(valores))
	for _, entidade := range entidades {
		selecao = append(selecao, b.dialeto.QuoteIdent(entidade))
	}
	for _, valor := range valores {
		selecao = append(selecao, fmt.Sprintf("SUM(%s) AS soma_%s",
			b.dialeto.QuoteIdent(valor), valor))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selecao, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.dialeto.QuoteIdent(b.tabela))

	params := make([]any, 0)
	where := b.montarWhere(filtros, &params)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	agrupamento := make([]string, 0, len(entidades))
	for _, entidade := range entidades {
		agrupamento = append(agrupamento, b.dialeto.QuoteIdent(entidade))
	}
	sb.WriteString(" GROUP BY ")
	sb.WriteString(strings.Join(agrupamento, ", "))

	if contemCampo(entidades, "credor") {
		ordenacao := make([]string, 0)
		for _, alias := range prioridadeOrdenacao {
			if contemCampo(aliasesSoma(valores), alias) {
				ordenacao = append(ordenacao, alias+" DESC")
			}
		}
		if len(ordenacao) > 0 {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(strings.Join(ordenacao, ", "))
		}
	}

	consulta := b.dialeto.Limit(sb.String(), LimiteLinhasConsulta)
	return &ConsultaSQL{SQL: consulta, Params: params}, nil
}

// montarWhere compõe o predicado: os filtros hierárquicos (poder, unidade
// gestora, unidade orçamentária) descrevem um mesmo ramo e são combinados em
// um único bloco AND por nível; os blocos de ramo formam o conjunto OR; os
// filtros independentes são combinados com AND; o predicado final é
// (blocos-OR) AND (independentes)
func (b *ConsultaBuilder) montarWhere(filtros FiltroMap, params *[]any) string {
	niveis := make([]string, 0, len(NiveisHierarquia))
	independentes := make([]string, 0)

	for _, entidade := range ColunasEntidade {
		resultados := filtros[entidade]
		if len(resultados) == 0 {
			continue
		}

		var condicao string
		switch {
		case entidade == "credor":
			condicao = b.condicaoCredor(resultados, params)
		default:
			condicao = b.condicaoIn(entidade, resultados, params)
		}

		if _, hierarquica := NiveisHierarquia[entidade]; hierarquica {
			niveis = append(niveis, condicao)
		} else {
			independentes = append(independentes, condicao)
		}
	}

	ramos := make([]string, 0, 1)
	if len(niveis) > 0 {
		ramos = append(ramos, "("+strings.Join(niveis, " AND ")+")")
	}

	partes := make([]string, 0, 2)
	if len(ramos) > 0 {
		partes = append(partes, "("+strings.Join(ramos, " OR ")+")")
	}
	if len(independentes) > 0 {
		partes = append(partes, "("+strings.Join(independentes, " AND ")+")")
	}
	return strings.Join(partes, " AND ")
}

// condicaoIn gera `coluna IN (...)` com um parâmetro "codigo - descricao"
// por filtro
func (b *ConsultaBuilder) condicaoIn(entidade string, resultados []Resultado, params *[]any) string {
	marcadores := make([]string, 0, len(resultados))
	for _, resultado := range resultados {
		*params = append(*params, formatarValorFiltro(resultado))
		marcadores = append(marcadores, b.dialeto.Placeholder(len(*params)))
	}
	return fmt.Sprintf("%s IN (%s)", b.dialeto.QuoteIdent(entidade),
		strings.Join(marcadores, ", "))
}

// condicaoCredor gera o bloco de LIKE do credor: a coluna é desnormalizada
// (código e razão social juntos), então o casamento é por substring do
// código, insensível a caixa
func (b *ConsultaBuilder) condicaoCredor(resultados []Resultado, params *[]any) string {
	condicoes := make([]string, 0, len(resultados))
	for _, resultado := range resultados {
		*params = append(*params, "%"+strings.ToUpper(strings.TrimSpace(resultado.Codigo))+"%")
		condicoes = append(condicoes, fmt.Sprintf("UPPER(%s) LIKE %s",
			b.dialeto.QuoteIdent("credor"), b.dialeto.Placeholder(len(*params))))
	}
	return "(" + strings.Join(condicoes, " OR ") + ")"
}

// formatarValorFiltro converte um filtro no valor armazenado na coluna da
// entidade: "codigo - descricao"
func formatarValorFiltro(resultado Resultado) string {
	return strings.TrimSpace(resultado.Codigo) + " - " + strings.TrimSpace(resultado.Descricao)
}

// validarCampos rejeita qualquer campo fora da lista fixa de colunas
func validarCampos(campos []string) error {
	invalidos := make([]string, 0)
	for _, campo := range campos {
		if !ColunaEntidadeValida(campo) && !ColunaValorValida(campo) {
			invalidos = append(invalidos, campo)
		}
	}
	if len(invalidos) > 0 {
		return InvalidFieldError(invalidos)
	}
	return nil
}

// colunasValorPedidas devolve as colunas de valor na ordem em que foram
// pedidas
func colunasValorPedidas(campos []string) []string {
	valores := make([]string, 0)
	for _, campo := range campos {
		if ColunaValorValida(campo) && !contemCampo(valores, campo) {
			valores = append(valores, campo)
		}
	}
	return valores
}

// entidadesFinais une as entidades pedidas com as entidades filtradas, na
// ordem canônica
func entidadesFinais(campos []string, filtros FiltroMap) []string {
	pedidas := make(map[string]bool)
	for _, campo := range campos {
		if ColunaEntidadeValida(campo) {
			pedidas[campo] = true
		}
	}
	for entidade, resultados := range filtros {
		if len(resultados) > 0 && ColunaEntidadeValida(entidade) {
			pedidas[entidade] = true
		}
	}

	entidades := make([]string, 0, len(pedidas))
	for _, entidade := range ColunasEntidade {
		if pedidas[entidade] {
			entidades = append(entidades, entidade)
		}
	}
	return entidades
}

func aliasesSoma(valores []string) []string {
	aliases := make([]string, 0, len(valores))
	for _, valor := range valores {
		aliases = append(aliases, "soma_"+valor)
	}
	return aliases
}

func contemCampo(campos []string, campo string) bool {
	for _, c := range campos {
		if c == campo {
			return true
		}
	}
	return false
}
