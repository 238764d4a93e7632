package consulta

import (
	"context"
	"errors"
	"log"
	"testing"
)

// tabelasTeste monta tabelas mínimas de referência para todas as entidades
func tabelasTeste() map[string]*Tabela {
	registros := map[string][]Registro{
		"poder":                {{Codigo: "01", Descricao: "Executivo"}},
		"unidade_gestora":      {{Codigo: "140001", Mnemonico: "SEDUC", Descricao: "Secretaria da Educação"}},
		"unidade_orcamentaria": {{Codigo: "14001", Descricao: "Fundo Estadual de Educação"}},
		"eixo":                 {{Codigo: "02", Descricao: "Desenvolvimento Social"}},
		"programa":             {{Codigo: "0042", Descricao: "Gestão da Educação"}},
		"acao":                 {{Codigo: "2077", Descricao: "Manutenção das Escolas"}},
		"ods":                  {{Codigo: "04", Descricao: "Educação de Qualidade"}},
		"emenda":               {{Codigo: "EM0123", Descricao: "Emenda Parlamentar de Saúde"}},
		"funcao":               {{Codigo: "12", Descricao: "Educação"}},
		"categoria_despesa":    {{Codigo: "3", Descricao: "Despesas Correntes"}},
		"grupo_despesa":        {{Codigo: "4", Descricao: "Investimentos"}},
		"elemento":             {{Codigo: "51", Descricao: "Obras e Instalações"}},
		"natureza":             {{Codigo: "339039", Descricao: "Outros Serviços de Terceiros"}},
		"fonte":                {{Codigo: "100", Descricao: "Recursos Ordinários"}},
		"convenio_receita":     {{Codigo: "654321", Descricao: "Convênio Federal de Receita"}},
		"convenio_despesa":     {{Codigo: "123456", Descricao: "Convênio Federal de Despesa"}},
		"contrato":             {{Codigo: "12345678", Descricao: "Contrato de Obra"}},
	}

	tabelas := make(map[string]*Tabela, len(registros))
	for nome, regs := range registros {
		tabelas[nome] = NovaTabela(regs)
	}
	return tabelas
}

func catalogoTeste(t *testing.T, store CredorStore) *Catalogo {
	t.Helper()
	catalogo, err := NovoCatalogoComTabelas(tabelasTeste(), store)
	if err != nil {
		t.Fatalf("falha ao montar catálogo de teste: %v", err)
	}
	return catalogo
}

func TestIdentificarFiltros(t *testing.T) {
	servico := NovoFiltroService(catalogoTeste(t, nil), log.Default())

	filtros := servico.IdentificarFiltros(context.Background(), "unidade_gestora 140001")

	resultados := filtros["unidade_gestora"]
	if len(resultados) != 1 || resultados[0].Codigo != "140001" {
		t.Fatalf("unidade gestora não resolvida: %v", filtros)
	}
	if len(filtros) != 1 {
		t.Errorf("entidades inesperadas no mapa: %v", filtros)
	}
}

func TestIdentificarFiltrosCascata(t *testing.T) {
	servico := NovoFiltroService(catalogoTeste(t, nil), log.Default())

	// A função resolve "12" primeiro e o trecho é removido da frase; o poder
	// não encontra mais dígito nenhum
	filtros := servico.IdentificarFiltros(context.Background(), "despesa na funcao 12 do poder 12")

	if len(filtros["funcao"]) != 1 {
		t.Fatalf("função não resolvida: %v", filtros)
	}
	if len(filtros["poder"]) != 0 {
		t.Errorf("poder resolveu código já consumido pela função: %v", filtros["poder"])
	}
}

func TestIdentificarFiltrosSemCascata(t *testing.T) {
	servico := NovoFiltroService(catalogoTeste(t, nil), log.Default())
	servico.Cascata = false

	filtros := servico.IdentificarFiltros(context.Background(), "despesa na funcao 12 do poder 1")

	if len(filtros["funcao"]) != 1 {
		t.Errorf("função não resolvida: %v", filtros)
	}
	if len(filtros["poder"]) != 1 {
		t.Errorf("poder não resolvido em modo independente: %v", filtros)
	}
}

type extratorFalho struct{}

func (e extratorFalho) Nome() string { return "falho" }

func (e extratorFalho) Extrair(ctx context.Context, frase string) ([]Resultado, error) {
	return nil, errors.New("falha simulada")
}

type extratorPanico struct{}

func (e extratorPanico) Nome() string { return "panico" }

func (e extratorPanico) Extrair(ctx context.Context, frase string) ([]Resultado, error) {
	panic("pânico simulado")
}

func TestIdentificarFiltrosIsolaFalhas(t *testing.T) {
	base := catalogoTeste(t, nil)
	catalogo := &Catalogo{
		extratores: append([]ExtratorFiltro{extratorFalho{}, extratorPanico{}}, base.extratores...),
		tabelas:    base.tabelas,
	}
	servico := NovoFiltroService(catalogo, log.Default())

	// Erro e pânico de extratores não derrubam os demais
	filtros := servico.IdentificarFiltros(context.Background(), "unidade_gestora 140001")
	if len(filtros["unidade_gestora"]) != 1 {
		t.Errorf("falha de um extrator contaminou os demais: %v", filtros)
	}
}

func TestMesclarFiltrosDeduplica(t *testing.T) {
	destino := FiltroMap{
		"fonte": {{Codigo: "100", Descricao: "Recursos Ordinários"}},
	}
	origem := FiltroMap{
		"fonte":  {{Codigo: "100", Descricao: "Recursos Ordinários"}, {Codigo: "200", Descricao: "Convênios"}},
		"funcao": {{Codigo: "12", Descricao: "Educação"}},
	}

	resultado := MesclarFiltros(destino, origem)

	if len(resultado["fonte"]) != 2 {
		t.Errorf("deduplicação incorreta: %v", resultado["fonte"])
	}
	if len(resultado["funcao"]) != 1 {
		t.Errorf("entidade nova não mesclada: %v", resultado)
	}
}
