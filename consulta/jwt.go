package consulta

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configurações para JWT
type JWTConfig struct {
	SecretKey string
	Issuer    string
	ExpiresIn time.Duration
}

// JWTService gera e valida tokens de acesso às rotas de consulta
type JWTService struct {
	config *JWTConfig
}

// NewJWTService cria o serviço JWT
func NewJWTService(config *JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// GerarToken gera um token assinado com os claims informados, completando
// iss, iat e exp quando ausentes
func (j *JWTService) GerarToken(claims jwt.MapClaims) (string, error) {
	now := time.Now()
	if claims["iss"] == nil {
		claims["iss"] = j.config.Issuer
	}
	if claims["iat"] == nil {
		claims["iat"] = now.Unix()
	}
	if claims["exp"] == nil {
		claims["exp"] = now.Add(j.config.ExpiresIn).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SecretKey))
}

// ValidarToken valida o token e devolve os claims
func (j *JWTService) ValidarToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(j.config.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// JWTMiddleware exige um token Bearer válido nas rotas de consulta
func (s *Server) JWTMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Status(http.StatusUnauthorized)
			return c.JSON(RespostaErro{
				Error: NewConsultaError("Unauthorized", "Token não fornecido", ""),
			})
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Status(http.StatusUnauthorized)
			return c.JSON(RespostaErro{
				Error: NewConsultaError("Unauthorized", "Formato de token inválido", ""),
			})
		}

		claims, err := s.jwtService.ValidarToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.Status(http.StatusUnauthorized)
			return c.JSON(RespostaErro{
				Error: NewConsultaError("Unauthorized", "Token inválido ou expirado", ""),
			})
		}

		c.Locals("jwt_claims", claims)
		if userID, ok := claims["sub"]; ok {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

// GetJWTClaims retorna os claims do token JWT do contexto
func GetJWTClaims(c fiber.Ctx) jwt.MapClaims {
	if claims := c.Locals("jwt_claims"); claims != nil {
		if mapClaims, ok := claims.(jwt.MapClaims); ok {
			return mapClaims
		}
	}
	return nil
}
