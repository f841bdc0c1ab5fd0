package payment

import (
	"fmt"
	"sort"
	"sync"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
)

// Registry implements outbound.PaymentProviderRegistryPort.
type Registry struct {
	mu        sync.RWMutex
	providers map[model.PaymentProvider]outbound.PaymentProviderPort
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[model.PaymentProvider]outbound.PaymentProviderPort),
	}
}

// Register adds a provider under its own name.
func (r *Registry) Register(provider outbound.PaymentProviderPort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// Get returns a provider by name.
func (r *Registry) Get(name model.PaymentProvider) (outbound.PaymentProviderPort, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("payment provider not configured: %s", name)
	}
	return provider, nil
}

// Names returns the registered provider names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

var _ outbound.PaymentProviderRegistryPort = (*Registry)(nil)
