package oauth

import (
	"github.com/carzone/server/internal/port/outbound"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher implements outbound.PasswordHasherPort.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a password hasher. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) outbound.PasswordHasherPort {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var _ outbound.PasswordHasherPort = (*bcryptHasher)(nil)
