package consulta

import (
	"fmt"
	"strings"
)

// Dialeto abstrai as diferenças de SQL entre os bancos suportados:
// identificadores, placeholders de parâmetro e limitação de linhas
type Dialeto interface {
	// Nome retorna o identificador do dialeto (mysql, oracle)
	Nome() string

	// QuoteIdent protege um identificador de tabela ou coluna
	QuoteIdent(ident string) string

	// Placeholder retorna o marcador de parâmetro de índice i (base 1)
	Placeholder(i int) string

	// Limit aplica a limitação de linhas à consulta
	Limit(sql string, n int) string
}

// MySQLDialect implementa o dialeto do MySQL
type MySQLDialect struct{}

// NovoMySQLDialect cria o dialeto MySQL
func NovoMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Nome() string {
	return "mysql"
}

func (d *MySQLDialect) QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

func (d *MySQLDialect) Limit(sql string, n int) string {
	return fmt.Sprintf("%s LIMIT %d", sql, n)
}

// OracleDialect implementa o dialeto do Oracle
type OracleDialect struct{}

// NovoOracleDialect cria o dialeto Oracle
func NovoOracleDialect() *OracleDialect {
	return &OracleDialect{}
}

func (d *OracleDialect) Nome() string {
	return "oracle"
}

func (d *OracleDialect) QuoteIdent(ident string) string {
	return ident
}

func (d *OracleDialect) Placeholder(i int) string {
	return fmt.Sprintf(":%d", i)
}

func (d *OracleDialect) Limit(sql string, n int) string {
	return fmt.Sprintf("%s FETCH FIRST %d ROWS ONLY", sql, n)
}

// DialetoPorNome resolve o dialeto pelo nome do driver; desconhecido cai no
// MySQL
func DialetoPorNome(nome string) Dialeto {
	switch strings.ToLower(nome) {
	case "oracle", "oci8", "go-ora":
		return NovoOracleDialect()
	default:
		return NovoMySQLDialect()
	}
}
