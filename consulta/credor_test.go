package consulta

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func bancoCredoresTeste(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE credores (codigo TEXT PRIMARY KEY, descricao TEXT)`)
	require.NoError(t, err)

	credores := []Registro{
		{Codigo: "12345678000190", Descricao: "CONSTRUTORA ALFA LTDA"},
		{Codigo: "98765432100", Descricao: "JOAO DA SILVA"},
		{Codigo: "11222333000144", Descricao: "TRANSPORTES BETA EIRELI"},
		{Codigo: "55666777000188", Descricao: "COMERCIO REI DO SOL LTDA"},
	}
	for _, credor := range credores {
		_, err = db.Exec(`INSERT INTO credores (codigo, descricao) VALUES (?, ?)`,
			credor.Codigo, credor.Descricao)
		require.NoError(t, err)
	}
	return db
}

func TestSQLCredorStoreBuscarPorCodigos(t *testing.T) {
	store := NovoSQLCredorStore(bancoCredoresTeste(t), NovoMySQLDialect(), "")
	ctx := context.Background()

	registros, err := store.BuscarPorCodigos(ctx, []string{"12345678000190", "00000000000"})
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Equal(t, "CONSTRUTORA ALFA LTDA", registros[0].Descricao)

	registros, err = store.BuscarPorCodigos(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, registros)
}

func TestSQLCredorStoreBuscarPorDescricao(t *testing.T) {
	store := NovoSQLCredorStore(bancoCredoresTeste(t), NovoMySQLDialect(), "")
	ctx := context.Background()

	// Todos os termos precisam aparecer na descrição; acentos na busca não
	// importam
	registros, err := store.BuscarPorDescricao(ctx, []string{"construtora", "álfa"})
	require.NoError(t, err)
	require.Len(t, registros, 1)
	assert.Equal(t, "12345678000190", registros[0].Codigo)

	registros, err = store.BuscarPorDescricao(ctx, []string{"construtora", "beta"})
	require.NoError(t, err)
	assert.Empty(t, registros)
}

func TestCredorExtratorPorCodigo(t *testing.T) {
	extrator := NovoCredorExtrator(NovoSQLCredorStore(bancoCredoresTeste(t), NovoMySQLDialect(), ""))

	// CNPJ pontuado vale: a pontuação é removida antes da varredura
	resultados, err := extrator.Extrair(context.Background(),
		"quanto foi pago ao credor 12.345.678/0001-90")
	require.NoError(t, err)
	require.Len(t, resultados, 1)
	assert.Equal(t, "12345678000190", resultados[0].Codigo)
	assert.Equal(t, "12345678000190", resultados[0].TrechoEncontrado)
}

func TestCredorExtratorPorDescricao(t *testing.T) {
	extrator := NovoCredorExtrator(NovoSQLCredorStore(bancoCredoresTeste(t), NovoMySQLDialect(), ""))
	ctx := context.Background()

	// Sobrenome comum dispara a busca textual sem a palavra "credor"
	resultados, err := extrator.Extrair(ctx, "quanto foi pago para joao da silva")
	require.NoError(t, err)
	require.Len(t, resultados, 1)
	assert.Equal(t, "98765432100", resultados[0].Codigo)

	// Sufixo societário também dispara
	resultados, err = extrator.Extrair(ctx, "pagamentos para transportes beta eireli")
	require.NoError(t, err)
	require.Len(t, resultados, 1)
	assert.Equal(t, "11222333000144", resultados[0].Codigo)

	// Sem gatilho nenhum, a busca textual não roda
	resultados, err = extrator.Extrair(ctx, "quanto foi pago com obras")
	require.NoError(t, err)
	assert.Empty(t, resultados)
}

func TestCredorExtratorTermosDeTresLetras(t *testing.T) {
	extrator := NovoCredorExtrator(NovoSQLCredorStore(bancoCredoresTeste(t), NovoMySQLDialect(), ""))

	// Fragmentos de três letras da razão social entram na busca; sem eles a
	// consulta por "ltda" sozinho devolveria mais de um credor
	resultados, err := extrator.Extrair(context.Background(),
		"quanto foi pago para rei do sol ltda")
	require.NoError(t, err)
	require.Len(t, resultados, 1)
	assert.Equal(t, "55666777000188", resultados[0].Codigo)
}
