package consulta

import (
	"context"
	"database/sql"
	"fmt"
)

// ResultadoConsulta carrega as linhas retornadas pela execução, preservando
// a ordem das colunas do SELECT
type ResultadoConsulta struct {
	Colunas []string         `json:"colunas"`
	Linhas  []map[string]any `json:"linhas"`
}

// Executor roda a consulta montada pelo pipeline contra o banco
type Executor struct {
	db *sql.DB
}

// NovoExecutor cria o executor sobre a conexão informada
func NovoExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Executar roda o SQL com os parâmetros vinculados e materializa as linhas.
// Valores []byte do driver são convertidos para string.
func (e *Executor) Executar(ctx context.Context, consulta *Consulta) (*ResultadoConsulta, error) {
	linhas, err := e.db.QueryContext(ctx, consulta.SQL, consulta.Params...)
	if err != nil {
		return nil, fmt.Errorf("falha ao executar consulta: %w", err)
	}
	defer linhas.Close()

	colunas, err := linhas.Columns()
	if err != nil {
		return nil, fmt.Errorf("falha ao ler colunas: %w", err)
	}

	resultado := &ResultadoConsulta{
		Colunas: colunas,
		Linhas:  make([]map[string]any, 0),
	}

	valores := make([]any, len(colunas))
	ponteiros := make([]any, len(colunas))
	for i := range valores {
		ponteiros[i] = &valores[i]
	}

	for linhas.Next() {
		if err := linhas.Scan(ponteiros...); err != nil {
			return nil, fmt.Errorf("falha ao ler linha: %w", err)
		}

		linha := make(map[string]any, len(colunas))
		for i, coluna := range colunas {
			valor := valores[i]
			if bruto, ok := valor.([]byte); ok {
				valor = string(bruto)
			}
			linha[coluna] = valor
		}
		resultado.Linhas = append(resultado.Linhas, linha)
	}
	if err := linhas.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar resultado: %w", err)
	}
	return resultado, nil
}
