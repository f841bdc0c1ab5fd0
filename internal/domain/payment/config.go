package payment

import "time"

// Config holds payment domain configuration.
type Config struct {
	// ReturnURL is where hosted checkouts send the shopper afterwards.
	ReturnURL string

	// ReconcileAfter is how long an intent may stay open before the
	// reconciler asks the provider about it.
	ReconcileAfter time.Duration

	// ReconcileBatch caps how many orders one reconcile pass inspects.
	ReconcileBatch int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ReconcileAfter: 10 * time.Minute,
		ReconcileBatch: 100,
	}
}
