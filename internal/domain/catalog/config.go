package catalog

import (
	"time"

	"github.com/carzone/server/internal/utils/pagination"
)

// Config holds catalog domain configuration.
type Config struct {
	// CacheTTL bounds how stale a cached product or category list may be.
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	// Currency is applied to products created without one.
	Currency string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CacheTTL:        5 * time.Minute,
		DefaultPageSize: pagination.DefaultPageSize,
		MaxPageSize:     pagination.MaxPageSize,
		Currency:        "usd",
	}
}
