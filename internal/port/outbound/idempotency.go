package outbound

import (
	"context"
	"time"
)

// IdempotencyRecord is the stored outcome of an idempotent request.
type IdempotencyRecord struct {
	Fingerprint string `json:"fingerprint"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Completed reports whether the original request has finished.
func (r *IdempotencyRecord) Completed() bool {
	return r.StatusCode != 0
}

// IdempotencyStorePort remembers responses keyed by Idempotency-Key.
type IdempotencyStorePort interface {
	// Reserve claims key for a request with the given fingerprint. When the
	// key is already claimed it returns false and the existing record.
	Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (bool, *IdempotencyRecord, error)

	// Complete stores the response for a reserved key.
	Complete(ctx context.Context, key string, record *IdempotencyRecord, ttl time.Duration) error

	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}
