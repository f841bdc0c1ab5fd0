package redis

import (
	"context"
	"errors"
	"time"

	"github.com/carzone/server/internal/port/outbound"
	"github.com/redis/go-redis/v9"
)

const (
	oauthStateKeyPrefix = "carzone:oauth:state:"

	// DefaultOAuthStateTTL bounds how long a sign-in round trip may take.
	DefaultOAuthStateTTL = 10 * time.Minute
)

// ErrStateNotFound is returned for unknown or expired states.
var ErrStateNotFound = errors.New("oauth state not found")

// oauthStateStore implements outbound.OAuthStateStorePort.
type oauthStateStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewOAuthStateStore creates a new OAuth state store adapter.
func NewOAuthStateStore(client redis.UniversalClient, ttl time.Duration) outbound.OAuthStateStorePort {
	if ttl <= 0 {
		ttl = DefaultOAuthStateTTL
	}
	return &oauthStateStore{client: client, ttl: ttl}
}

func (s *oauthStateStore) Set(ctx context.Context, state string, provider string) error {
	return s.client.Set(ctx, oauthStateKeyPrefix+state, provider, s.ttl).Err()
}

func (s *oauthStateStore) Get(ctx context.Context, state string) (string, error) {
	provider, err := s.client.Get(ctx, oauthStateKeyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrStateNotFound
		}
		return "", err
	}
	return provider, nil
}

func (s *oauthStateStore) Delete(ctx context.Context, state string) error {
	return s.client.Del(ctx, oauthStateKeyPrefix+state).Err()
}

var _ outbound.OAuthStateStorePort = (*oauthStateStore)(nil)
