package oauth

import (
	"fmt"
	"sort"
	"sync"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
)

// Registry implements outbound.OAuthRegistryPort.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]outbound.OAuthProviderPort
}

// NewRegistry creates a new OAuth provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]outbound.OAuthProviderPort),
	}
}

// NewConfiguredRegistry registers every provider whose credentials are set.
func NewConfiguredRegistry(githubCfg, googleCfg *Config) *Registry {
	r := NewRegistry()
	if githubCfg.Configured() {
		r.Register(model.OAuthProviderGitHub.String(), NewGitHubProvider(githubCfg))
	}
	if googleCfg.Configured() {
		r.Register(model.OAuthProviderGoogle.String(), NewGoogleProvider(googleCfg))
	}
	return r
}

// Register registers an OAuth provider.
func (r *Registry) Register(name string, provider outbound.OAuthProviderPort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// Get returns an OAuth provider by name.
func (r *Registry) Get(name string) (outbound.OAuthProviderPort, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return provider, nil
}

// List returns the registered provider names in order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ outbound.OAuthRegistryPort = (*Registry)(nil)
