package consulta

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// limiteBuscaCredor limita os candidatos retornados por consulta ao banco
const limiteBuscaCredor = 10

// CredorStore localiza credores no banco. A tabela de credores é grande
// demais para residir em memória, por isso credor é a única entidade
// resolvida por consulta.
type CredorStore interface {
	// BuscarPorCodigos retorna os credores cujos códigos (CPF ou CNPJ)
	// estejam na lista
	BuscarPorCodigos(ctx context.Context, codigos []string) ([]Registro, error)

	// BuscarPorDescricao retorna os credores cuja descrição contenha todos
	// os termos informados
	BuscarPorDescricao(ctx context.Context, termos []string) ([]Registro, error)
}

// SQLCredorStore implementa CredorStore sobre database/sql, com SQL gerado
// conforme o dialeto do banco
type SQLCredorStore struct {
	db      *sql.DB
	dialeto Dialeto
	tabela  string
}

// NovoSQLCredorStore cria o store sobre a conexão informada. Tabela vazia
// assume "credores".
func NovoSQLCredorStore(db *sql.DB, dialeto Dialeto, tabela string) *SQLCredorStore {
	if tabela == "" {
		tabela = "credores"
	}
	return &SQLCredorStore{db: db, dialeto: dialeto, tabela: tabela}
}

func (s *SQLCredorStore) BuscarPorCodigos(ctx context.Context, codigos []string) ([]Registro, error) {
	if len(codigos) == 0 {
		return nil, nil
	}

	marcadores := make([]string, len(codigos))
	params := make([]any, len(codigos))
	for i, codigo := range codigos {
		marcadores[i] = s.dialeto.Placeholder(i + 1)
		params[i] = codigo
	}

	consulta := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IN (%s)",
		s.dialeto.QuoteIdent("codigo"),
		s.dialeto.QuoteIdent("descricao"),
		s.dialeto.QuoteIdent(s.tabela),
		s.dialeto.QuoteIdent("codigo"),
		strings.Join(marcadores, ", "))
	consulta = s.dialeto.Limit(consulta, limiteBuscaCredor)

	return s.consultar(ctx, consulta, params)
}

func (s *SQLCredorStore) BuscarPorDescricao(ctx context.Context, termos []string) ([]Registro, error) {
	if len(termos) == 0 {
		return nil, nil
	}

	condicoes := make([]string, len(termos))
	params := make([]any, len(termos))
	for i, termo := range termos {
		condicoes[i] = fmt.Sprintf("UPPER(%s) LIKE %s",
			s.dialeto.QuoteIdent("descricao"), s.dialeto.Placeholder(i+1))
		params[i] = "%" + strings.ToUpper(Normalizar(termo)) + "%"
	}

	consulta := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s",
		s.dialeto.QuoteIdent("codigo"),
		s.dialeto.QuoteIdent("descricao"),
		s.dialeto.QuoteIdent(s.tabela),
		strings.Join(condicoes, " AND "))
	consulta = s.dialeto.Limit(consulta, limiteBuscaCredor)

	return s.consultar(ctx, consulta, params)
}

func (s *SQLCredorStore) consultar(ctx context.Context, consulta string, params []any) ([]Registro, error) {
	linhas, err := s.db.QueryContext(ctx, consulta, params...)
	if err != nil {
		return nil, fmt.Errorf("falha na busca de credores: %w", err)
	}
	defer linhas.Close()

	registros := make([]Registro, 0)
	for linhas.Next() {
		var registro Registro
		if err := linhas.Scan(&registro.Codigo, &registro.Descricao); err != nil {
			return nil, fmt.Errorf("falha ao ler credor: %w", err)
		}
		registros = append(registros, registro)
	}
	if err := linhas.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar credores: %w", err)
	}
	return registros, nil
}

// sobrenomesCredor habilita a busca textual de credor quando um sobrenome
// comum aparece na frase, mesmo sem a palavra "credor"
var sobrenomesCredor = conjunto([]string{
	"silva", "santos", "oliveira", "souza", "sousa", "pereira", "lima",
	"costa", "ferreira", "almeida", "nascimento", "rodrigues", "carvalho",
	"gomes", "martins", "araujo", "ribeiro", "barbosa", "rocha", "moreira",
})

// termosEmpresaCredor habilita a busca textual quando a frase contém um
// sufixo societário típico de razão social
var termosEmpresaCredor = conjunto([]string{
	"ltda", "eireli", "epp", "sa", "cia", "mei",
})

// stopwordsCredor remove do vocabulário de busca as palavras do próprio
// domínio de consulta, que nunca fazem parte de uma razão social
var stopwordsCredor = conjunto([]string{
	"credor", "credores", "fornecedor", "fornecedores", "empresa",
	"quanto", "quais", "foi", "foram", "valor", "valores", "total", "pago", "paga",
	"pagos", "pagas", "pagamento", "pagamentos", "gasto", "gastos",
	"despesa", "despesas", "empenhada", "empenhadas",
	"liquidada", "liquidadas", "exercicio", "dotacao", "inicial",
	"para", "pelo", "pela", "pelos", "pelas", "com", "de", "do", "da",
	"dos", "das", "em", "no", "na", "nos", "nas", "ano", "2024", "2025",
})

// CredorExtrator resolve credores na frase: CPF e CNPJ por código e, quando
// o contexto indica um credor, razão social por busca textual no banco
type CredorExtrator struct {
	store CredorStore
}

// NovoCredorExtrator cria o extrator sobre o store informado
func NovoCredorExtrator(store CredorStore) *CredorExtrator {
	return &CredorExtrator{store: store}
}

func (e *CredorExtrator) Nome() string {
	return "credor"
}

// Extrair busca CPFs e CNPJs (11 e 14 dígitos, já sem a pontuação usual) e,
// na presença de um gatilho textual, os credores cuja razão social contenha
// todos os termos relevantes da frase
func (e *CredorExtrator) Extrair(ctx context.Context, frase string) ([]Resultado, error) {
	resultados := make([]Resultado, 0)
	texto := RemoverPontuacao(Normalizar(frase))
	if strings.TrimSpace(texto) == "" {
		return resultados, nil
	}

	vistos := make(map[string]bool)

	codigos := make([]string, 0)
	for _, sequencia := range sequenciasDigitos(texto, false) {
		if len(sequencia) == 11 || len(sequencia) == 14 {
			codigos = append(codigos, sequencia)
		}
	}
	if len(codigos) > 0 {
		registros, err := e.store.BuscarPorCodigos(ctx, codigos)
		if err != nil {
			return nil, err
		}
		for _, registro := range registros {
			if vistos[registro.Codigo] {
				continue
			}
			vistos[registro.Codigo] = true
			resultados = append(resultados, Resultado{
				Codigo:           registro.Codigo,
				Descricao:        registro.Descricao,
				TrechoEncontrado: registro.Codigo,
			})
		}
	}

	termos := e.termosBusca(texto)
	if len(termos) == 0 {
		return resultados, nil
	}

	registros, err := e.store.BuscarPorDescricao(ctx, termos)
	if err != nil {
		return nil, err
	}
	for _, registro := range registros {
		if vistos[registro.Codigo] {
			continue
		}
		vistos[registro.Codigo] = true
		resultados = append(resultados, Resultado{
			Codigo:           registro.Codigo,
			Descricao:        registro.Descricao,
			TrechoEncontrado: frase,
		})
	}
	return resultados, nil
}

// termosBusca decide se a busca textual deve rodar e quais termos usar. A
// busca só dispara quando a frase menciona credor explicitamente, contém um
// sobrenome comum ou um sufixo societário; sem gatilho, nomes genéricos na
// frase causariam falsos positivos em massa.
func (e *CredorExtrator) termosBusca(texto string) []string {
	tokens := strings.Fields(texto)

	gatilho := false
	for _, token := range tokens {
		if token == "credor" || token == "credores" || sobrenomesCredor[token] || termosEmpresaCredor[token] {
			gatilho = true
			break
		}
	}
	if !gatilho {
		return nil
	}

	termos := make([]string, 0)
	for _, token := range tokens {
		if stopwordsCredor[token] {
			continue
		}
		if sobrenomesCredor[token] || termosEmpresaCredor[token] {
			termos = append(termos, token)
			continue
		}
		if len([]rune(token)) > 2 && !soDigitos(token) {
			termos = append(termos, token)
		}
	}
	return termos
}

func soDigitos(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
