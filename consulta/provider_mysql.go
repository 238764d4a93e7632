package consulta

import (
	_ "github.com/go-sql-driver/mysql"
)

// MySQLProvider implementa o provider para MySQL
type MySQLProvider struct {
	BaseProvider
}

// NewMySQLProvider cria uma nova instância do provider MySQL
func NewMySQLProvider() *MySQLProvider {
	return &MySQLProvider{
		BaseProvider: BaseProvider{driverName: "mysql"},
	}
}

// Connect conecta ao banco MySQL
func (p *MySQLProvider) Connect(config *EnvConfig) error {
	return p.conectar(config)
}

func init() {
	RegisterProvider("mysql", func() DatabaseProvider {
		return NewMySQLProvider()
	})
}
