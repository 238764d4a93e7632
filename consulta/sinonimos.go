package consulta

import (
	"regexp"
	"sort"
)

// substituicao vincula um sinônimo já normalizado à sua chave canônica
type substituicao struct {
	padrao *regexp.Regexp
	chave  string
}

// Tradutor reescreve sinônimos de domínio para chaves canônicas snake_case.
// A lista de substituições é ordenada por tamanho decrescente do sinônimo,
// garantindo que "pago no exercicio" seja processado antes de "pago".
type Tradutor struct {
	substituicoes []substituicao
}

// NovoTradutor cria um tradutor a partir de um dicionário chave → sinônimos
func NovoTradutor(dicionario map[string][]string) *Tradutor {
	type par struct {
		sinonimo string
		chave    string
		ordem    int
	}

	pares := make([]par, 0)
	ordem := 0
	// Percorre as chaves em ordem estável para desempate determinístico
	chaves := make([]string, 0, len(dicionario))
	for chave := range dicionario {
		chaves = append(chaves, chave)
	}
	sort.Strings(chaves)

	for _, chave := range chaves {
		for _, sinonimo := range dicionario[chave] {
			pares = append(pares, par{sinonimo: Normalizar(sinonimo), chave: chave, ordem: ordem})
			ordem++
		}
	}

	// Sinônimos mais longos primeiro; empate decidido pela ordem de inserção
	sort.SliceStable(pares, func(i, j int) bool {
		if len(pares[i].sinonimo) != len(pares[j].sinonimo) {
			return len(pares[i].sinonimo) > len(pares[j].sinonimo)
		}
		return pares[i].ordem < pares[j].ordem
	})

	substituicoes := make([]substituicao, 0, len(pares))
	for _, p := range pares {
		if p.sinonimo == "" {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(p.sinonimo) + `\b`)
		substituicoes = append(substituicoes, substituicao{padrao: re, chave: p.chave})
	}

	return &Tradutor{substituicoes: substituicoes}
}

// Traduzir normaliza a frase e substitui sinônimos por chaves canônicas,
// da substituição mais específica para a mais genérica. Entrada vazia
// retorna string vazia.
func (t *Tradutor) Traduzir(texto string) string {
	if texto == "" {
		return ""
	}

	processado := Normalizar(texto)
	for _, s := range t.substituicoes {
		processado = s.padrao.ReplaceAllString(processado, s.chave)
	}
	return processado
}

// DicionarioPadrao retorna o dicionário de sinônimos do domínio de execução
// orçamentária. As listas são imutáveis após a construção do tradutor.
func DicionarioPadrao() map[string][]string {
	return map[string][]string{
		"poder": {
			"poder", "poderes",
		},
		"unidade_gestora": {
			"unidade gestora", "unidades gestoras",
			"ug", "ugs",
			"gestora", "gestoras",
		},
		"fonte": {
			"fonte", "fontes",
			"fonte de recurso", "fontes de recurso",
			"origem do recurso", "origens do recurso", "origens de recurso",
		},
		"natureza": {
			"natureza", "naturezas",
			"natureza da despesa", "naturezas da despesa",
			"nd", "nds",
		},
		"programa": {
			"programa", "programas",
			"programa de governo", "programas de governo",
		},
		"elemento": {
			"elemento de despesa", "elementos de despesa",
			"elemento", "elementos",
		},
		"grupo_despesa": {
			"grupo de despesa", "grupos de despesa",
			"grupo", "grupos",
		},
		"categoria_despesa": {
			"categoria de despesa", "categorias de despesa",
			"categoria", "categorias",
		},
		"funcao": {
			"funcao", "funcoes", "função", "funções",
			"funcao de despesa", "funcoes de despesa",
			"função de despesa", "funções de despesa",
		},
		"acao": {
			"ação", "acoes", "ações",
			"projeto atividade", "projetos atividades",
			"projeto atividades", "projetos atividade",
		},
		"ods": {
			"ods", "odss",
			"objetivo de desenvolvimento sustentável",
			"objetivos de desenvolvimento sustentável",
		},
		"eixo": {
			"eixo", "eixos",
			"eixo de governo", "eixos de governo",
			"eixo de programa", "eixos de programa",
		},
		"unidade_orcamentaria": {
			"unidade orçamentária", "unidades orçamentárias",
			"unidade orcamentaria", "unidades orcamentarias",
			"uo", "uos",
		},
		"emenda": {
			"emenda", "emendas",
		},
		"contrato": {
			"contrato", "contratos",
		},
		"convenio_receita": {
			"convenio de receita", "convenios de receita",
			"convênio de receita", "convênios de receita",
		},
		"convenio_despesa": {
			"convenio de despesa", "convenios de despesa",
			"convênio de despesa", "convênios de despesa",
		},
		"credor": {
			"credor", "credores",
			"fornecedor", "fornecedores",
		},
		"dotacao_inicial": {
			"dotação inicial", "dotações iniciais",
			"dotacao inicial", "dotacoes iniciais",
		},
		"despesas_empenhadas": {
			"despesa empenhada", "despesas empenhadas",
			"empenhado", "empenhados", "empenhada", "empenhadas",
		},
		"despesas_liquidadas": {
			"despesa liquidada", "despesas liquidadas",
			"liquidado", "liquidados", "liquidada", "liquidadas",
		},
		// Termo longo (específico) antes do curto na ordenação por tamanho
		"despesas_exercicio_pagas": {
			"despesas do exercício pagas", "despesa do exercício paga",
			"despesas do exercicio pagas", "despesa do exercicio paga",
			"pago no exercício", "pagos no exercício",
			"pago no exercicio", "pagos no exercicio",
		},
		"despesas_pagas": {
			"despesa paga", "despesas pagas",
			"pago", "pagos", "paga", "pagas",
		},
	}
}
