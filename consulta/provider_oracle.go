package consulta

import (
	_ "github.com/sijms/go-ora/v2"
)

// OracleProvider implementa o provider para Oracle
type OracleProvider struct {
	BaseProvider
}

// NewOracleProvider cria uma nova instância do provider Oracle
func NewOracleProvider() *OracleProvider {
	return &OracleProvider{
		BaseProvider: BaseProvider{driverName: "oracle"},
	}
}

// Connect conecta ao banco Oracle
func (p *OracleProvider) Connect(config *EnvConfig) error {
	return p.conectar(config)
}

func init() {
	RegisterProvider("oracle", func() DatabaseProvider {
		return NewOracleProvider()
	})
}
