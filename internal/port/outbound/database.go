package outbound

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by database adapters when a write violates a
// unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// TransactionPort runs a unit of work in a single database transaction.
// Adapters called with the callback's context join the transaction.
type TransactionPort interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
