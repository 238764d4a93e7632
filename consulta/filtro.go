package consulta

import (
	"context"
	"log"
	"strings"
)

// FiltroService identifica os filtros de entidade presentes em um fragmento
// de frase, percorrendo os extratores do catálogo na ordem de prioridade
type FiltroService struct {
	catalogo *Catalogo
	logger   *log.Logger

	// Cascata remove da frase os trechos já casados antes de passar aos
	// extratores seguintes, evitando que um código de contrato vire um
	// falso código de ação
	Cascata bool
}

// NovoFiltroService cria o serviço com extração em cascata habilitada
func NovoFiltroService(catalogo *Catalogo, logger *log.Logger) *FiltroService {
	if logger == nil {
		logger = log.Default()
	}
	return &FiltroService{catalogo: catalogo, logger: logger, Cascata: true}
}

// IdentificarFiltros executa todos os extratores sobre o fragmento e agrupa
// os resultados por entidade. Entidades sem resultado não entram no mapa.
// Falha ou pânico de um extrator é registrado e não derruba os demais.
func (s *FiltroService) IdentificarFiltros(ctx context.Context, fragmento string) FiltroMap {
	filtros := make(FiltroMap)
	texto := fragmento

	for _, extrator := range s.catalogo.Extratores() {
		if strings.TrimSpace(texto) == "" {
			break
		}

		resultados := s.extrairSeguro(ctx, extrator, texto)
		if len(resultados) == 0 {
			continue
		}
		filtros[extrator.Nome()] = append(filtros[extrator.Nome()], resultados...)

		if s.Cascata {
			texto = removerCasados(texto, resultados)
		}
	}
	return filtros
}

// extrairSeguro isola a execução de um extrator: erro e pânico viram apenas
// um registro de log
func (s *FiltroService) extrairSeguro(ctx context.Context, extrator ExtratorFiltro, texto string) (resultados []Resultado) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("extrator %s: pânico recuperado: %v", extrator.Nome(), r)
			resultados = nil
		}
	}()

	resultados, err := extrator.Extrair(ctx, texto)
	if err != nil {
		s.logger.Printf("extrator %s: %v", extrator.Nome(), err)
		return nil
	}
	return resultados
}

// removerCasados apaga da frase os trechos casados por código ou mnemônico.
// Casamentos de descrição carregam a frase inteira como trecho e são
// preservados, pois a mesma descrição pode ancorar outras entidades.
func removerCasados(texto string, resultados []Resultado) string {
	for _, resultado := range resultados {
		trecho := strings.TrimSpace(resultado.TrechoEncontrado)
		if trecho == "" {
			continue
		}
		if strings.EqualFold(trecho, strings.TrimSpace(texto)) {
			continue
		}
		texto = removerTrecho(texto, trecho)
	}
	return texto
}

// MesclarFiltros acrescenta ao destino os resultados da origem, descartando
// códigos que a entidade já possui
func MesclarFiltros(destino, origem FiltroMap) FiltroMap {
	if destino == nil {
		destino = make(FiltroMap)
	}
	for entidade, resultados := range origem {
		existentes := make(map[string]bool, len(destino[entidade]))
		for _, resultado := range destino[entidade] {
			existentes[resultado.Codigo] = true
		}
		for _, resultado := range resultados {
			if existentes[resultado.Codigo] {
				continue
			}
			existentes[resultado.Codigo] = true
			destino[entidade] = append(destino[entidade], resultado)
		}
	}
	return destino
}
