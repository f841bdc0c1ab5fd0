package outbound

import (
	"context"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
)

// RefreshTokenDatabasePort defines refresh token persistence operations.
type RefreshTokenDatabasePort interface {
	// Create creates a new refresh token.
	Create(ctx context.Context, token *model.RefreshToken) error

	// GetByHash gets a refresh token by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)

	// Revoke revokes a refresh token.
	Revoke(ctx context.Context, id uuid.UUID) error

	// RevokeAllForUser revokes all refresh tokens for a user.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired deletes expired refresh tokens.
	DeleteExpired(ctx context.Context) (int64, error)
}

// OAuthStateStorePort defines OAuth state storage operations.
type OAuthStateStorePort interface {
	// Set stores an OAuth state with provider info.
	Set(ctx context.Context, state string, provider string) error

	// Get retrieves the provider for a state.
	Get(ctx context.Context, state string) (string, error)

	// Delete removes a state.
	Delete(ctx context.Context, state string) error
}

// OAuthProviderPort defines OAuth provider operations.
type OAuthProviderPort interface {
	// GetAuthURL returns the OAuth authorization URL.
	GetAuthURL(state string) string

	// Exchange exchanges an authorization code for a token.
	Exchange(ctx context.Context, code string) (string, error)

	// GetUserInfo gets user information from the OAuth provider.
	GetUserInfo(ctx context.Context, token string) (*model.OAuthUserInfo, error)
}

// OAuthRegistryPort defines OAuth provider registry operations.
type OAuthRegistryPort interface {
	// Get returns an OAuth provider by name.
	Get(provider string) (OAuthProviderPort, error)

	// List returns all registered providers.
	List() []string
}

// JWTPort defines JWT token operations.
type JWTPort interface {
	// GenerateAccessToken generates an access token for the user.
	GenerateAccessToken(user *model.User) (string, time.Time, error)

	// GenerateRefreshToken generates a refresh token.
	GenerateRefreshToken() (rawToken string, tokenHash string, expiresAt time.Time, err error)

	// ValidateAccessToken validates an access token.
	ValidateAccessToken(token string) (*JWTClaims, error)

	// HashRefreshToken hashes a refresh token.
	HashRefreshToken(token string) string

	// AccessTokenExpiry returns access token lifetime.
	AccessTokenExpiry() time.Duration
}

// JWTClaims represents JWT token claims.
type JWTClaims struct {
	UserID uuid.UUID
	Email  string
	Role   model.UserRole
}

// PasswordHasherPort hashes and verifies passwords.
type PasswordHasherPort interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RateLimiterPort defines rate limiting operations.
type RateLimiterPort interface {
	// Allow checks if a request is allowed within rate limits.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns remaining requests in window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
