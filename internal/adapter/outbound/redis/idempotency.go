package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/carzone/server/internal/port/outbound"
	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "carzone:idempotency:"

// idempotencyStore implements outbound.IdempotencyStorePort.
type idempotencyStore struct {
	client redis.UniversalClient
}

// NewIdempotencyStore creates a new idempotency store adapter.
func NewIdempotencyStore(client redis.UniversalClient) outbound.IdempotencyStorePort {
	return &idempotencyStore{client: client}
}

func (s *idempotencyStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (bool, *outbound.IdempotencyRecord, error) {
	fullKey := idempotencyKeyPrefix + key
	data, err := json.Marshal(&outbound.IdempotencyRecord{Fingerprint: fingerprint})
	if err != nil {
		return false, nil, err
	}

	ok, err := s.client.SetNX(ctx, fullKey, data, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if ok {
		return true, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; try once more.
			ok, err := s.client.SetNX(ctx, fullKey, data, ttl).Result()
			return ok, nil, err
		}
		return false, nil, err
	}

	var record outbound.IdempotencyRecord
	if err := json.Unmarshal(existing, &record); err != nil {
		return false, nil, err
	}
	return false, &record, nil
}

func (s *idempotencyStore) Complete(ctx context.Context, key string, record *outbound.IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyKeyPrefix+key, data, ttl).Err()
}

func (s *idempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

var _ outbound.IdempotencyStorePort = (*idempotencyStore)(nil)
