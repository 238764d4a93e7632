package consulta

import "time"

// Limites de entrada
const (
	DefaultMaxFraseLength = 1000 // 1KB máximo por frase de consulta
)

// Rate Limiting
const (
	DefaultRateLimitPerMinute = 100         // 100 requisições por minuto
	DefaultRateLimitBurstSize = 10          // 10 requisições concorrentes
	DefaultRateLimitWindow    = time.Minute // janela de 1 minuto
)

// Pool de conexões
const (
	DefaultMinConnections = 2                // mínimo de conexões no pool
	DefaultMaxConnections = 10               // máximo de conexões no pool
	DefaultMaxIdleTime    = 10 * time.Minute // tempo máximo ocioso
)
