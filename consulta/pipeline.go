package consulta

import (
	"context"
	"log"
	"strings"
)

// Corretor é um colaborador opcional de correção ortográfica, aplicado à
// frase antes da tradução de sinônimos
type Corretor interface {
	Corrigir(frase string) string
}

// Consulta é o produto do pipeline para uma frase: a forma canônica, os
// campos pedidos, os filtros resolvidos e o SQL parametrizado
type Consulta struct {
	Frase         string    `json:"frase"`
	FraseCanonica string    `json:"frase_canonica"`
	Campos        []string  `json:"campos"`
	Filtros       FiltroMap `json:"filtros"`
	SQL           string    `json:"sql"`
	Params        []any     `json:"params"`
}

// Pipeline encadeia as etapas de interpretação: correção opcional, tradução
// de sinônimos, identificação de parâmetros, segmentação, extração de
// filtros e montagem da consulta
type Pipeline struct {
	tradutor *Tradutor
	termos   *ExtratorTermos
	divisor  *Divisor
	filtros  *FiltroService
	builder  *ConsultaBuilder
	corretor Corretor
}

// NovoPipeline monta o pipeline com o dicionário padrão de sinônimos e o
// conjunto canônico de chaves
func NovoPipeline(catalogo *Catalogo, dialeto Dialeto, tabela string, logger *log.Logger) *Pipeline {
	chaves := ChavesConsulta()
	return &Pipeline{
		tradutor: NovoTradutor(DicionarioPadrao()),
		termos:   NovoExtratorTermos(chaves),
		divisor:  NovoDivisor(chaves),
		filtros:  NovoFiltroService(catalogo, logger),
		builder:  NovoConsultaBuilder(dialeto, tabela),
	}
}

// ComCorretor instala o corretor ortográfico opcional
func (p *Pipeline) ComCorretor(corretor Corretor) *Pipeline {
	p.corretor = corretor
	return p
}

// Processar interpreta a frase e devolve a consulta montada. Frase vazia e
// falhas de validação do builder retornam ConsultaError; falhas individuais
// de extrator são apenas registradas.
func (p *Pipeline) Processar(ctx context.Context, frase string) (*Consulta, error) {
	if strings.TrimSpace(frase) == "" {
		return nil, InvalidRequestError("a frase da consulta é obrigatória")
	}
	if p.corretor != nil {
		frase = p.corretor.Corrigir(frase)
	}

	canonica := p.tradutor.Traduzir(frase)
	campos := p.termos.IdentificarParametros(canonica)

	filtros := make(FiltroMap)
	for _, fragmento := range p.divisor.QuebrarFrase(canonica) {
		filtros = MesclarFiltros(filtros, p.filtros.IdentificarFiltros(ctx, fragmento))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	consultaSQL, err := p.builder.BuildQuery(campos, filtros)
	if err != nil {
		return nil, err
	}

	return &Consulta{
		Frase:         frase,
		FraseCanonica: canonica,
		Campos:        campos,
		Filtros:       filtros,
		SQL:           consultaSQL.SQL,
		Params:        consultaSQL.Params,
	}, nil
}
