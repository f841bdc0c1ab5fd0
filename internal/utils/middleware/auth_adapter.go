package middleware

import (
	"github.com/carzone/server/internal/port/outbound"
)

// ValidatorFunc adapts a function such as auth.AuthDomain.ValidateAccessToken
// to JWTValidator.
type ValidatorFunc func(token string) (*outbound.JWTClaims, error)

// ValidateToken implements JWTValidator.
func (f ValidatorFunc) ValidateToken(token string) (*outbound.JWTClaims, error) {
	return f(token)
}

var _ JWTValidator = ValidatorFunc(nil)
