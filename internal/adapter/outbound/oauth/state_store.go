package oauth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/carzone/server/internal/port/outbound"
)

// ErrStateNotFound is returned for unknown or expired states.
var ErrStateNotFound = errors.New("oauth state not found")

// MemoryStateStore implements outbound.OAuthStateStorePort in process memory.
// It serves single-instance deployments without Redis.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry
	ttl    time.Duration
	now    func() time.Time
}

type stateEntry struct {
	provider  string
	expiresAt time.Time
}

// NewMemoryStateStore creates an in-memory OAuth state store.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryStateStore{
		states: make(map[string]stateEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryStateStore) Set(_ context.Context, state string, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.states[state] = stateEntry{provider: provider, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStateStore) Get(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[state]
	if !ok || s.now().After(entry.expiresAt) {
		return "", ErrStateNotFound
	}
	return entry.provider, nil
}

func (s *MemoryStateStore) Delete(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, state)
	return nil
}

// sweep drops expired states. Callers hold mu.
func (s *MemoryStateStore) sweep() {
	now := s.now()
	for state, entry := range s.states {
		if now.After(entry.expiresAt) {
			delete(s.states, state)
		}
	}
}

var _ outbound.OAuthStateStorePort = (*MemoryStateStore)(nil)
