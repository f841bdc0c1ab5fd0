package oauth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/random"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret             string
	Issuer             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		Issuer:             "carzone",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

// accessClaims is the payload of an access token.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// jwtManager implements outbound.JWTPort.
type jwtManager struct {
	secret             []byte
	issuer             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(cfg *JWTConfig) outbound.JWTPort {
	if cfg == nil {
		cfg = DefaultJWTConfig()
	}
	return &jwtManager{
		secret:             []byte(cfg.Secret),
		issuer:             cfg.Issuer,
		accessTokenExpiry:  cfg.AccessTokenExpiry,
		refreshTokenExpiry: cfg.RefreshTokenExpiry,
		now:                time.Now,
	}
}

// GenerateAccessToken signs an HS256 token carrying the user's ID and role.
func (m *jwtManager) GenerateAccessToken(user *model.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.accessTokenExpiry)

	claims := accessClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// GenerateRefreshToken returns an opaque token and the hash to store.
func (m *jwtManager) GenerateRefreshToken() (rawToken string, tokenHash string, expiresAt time.Time, err error) {
	rawToken, err = random.Hex(32)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return rawToken, m.HashRefreshToken(rawToken), m.now().Add(m.refreshTokenExpiry), nil
}

// ValidateAccessToken verifies the signature, issuer and expiry of a token.
func (m *jwtManager) ValidateAccessToken(tokenString string) (*outbound.JWTClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	return &outbound.JWTClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   model.UserRole(claims.Role),
	}, nil
}

// HashRefreshToken hashes a refresh token.
func (m *jwtManager) HashRefreshToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// AccessTokenExpiry returns the access token lifetime.
func (m *jwtManager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

var _ outbound.JWTPort = (*jwtManager)(nil)
