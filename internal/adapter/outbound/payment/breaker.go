package payment

import (
	"context"
	"errors"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerConfig tunes the circuit breaker in front of a provider.
type BreakerConfig struct {
	MaxFailures uint32
	Timeout     time.Duration
}

// DefaultBreakerConfig returns default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second}
}

// breakerProvider guards a provider's remote calls with a circuit breaker
// and records call latency.
type breakerProvider struct {
	inner   outbound.PaymentProviderPort
	breaker *gobreaker.CircuitBreaker[any]
	metrics *metrics.Metrics
}

// WithBreaker wraps provider in a circuit breaker. Webhook parsing is local
// and bypasses the breaker.
func WithBreaker(provider outbound.PaymentProviderPort, cfg BreakerConfig, m *metrics.Metrics, logger *zap.Logger) outbound.PaymentProviderPort {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBreakerConfig().Timeout
	}
	name := string(provider.Name())

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about the provider's health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment provider breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			m.SetBreakerState(name, int(to))
		},
	}

	return &breakerProvider{
		inner:   provider,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		metrics: m,
	}
}

func (p *breakerProvider) Name() model.PaymentProvider {
	return p.inner.Name()
}

func (p *breakerProvider) CreateIntent(ctx context.Context, params *model.CreateIntentParams) (*model.ProviderIntent, error) {
	return call(p, "create_intent", func() (*model.ProviderIntent, error) {
		return p.inner.CreateIntent(ctx, params)
	})
}

func (p *breakerProvider) GetIntent(ctx context.Context, intentID string) (*model.ProviderIntent, error) {
	return call(p, "get_intent", func() (*model.ProviderIntent, error) {
		return p.inner.GetIntent(ctx, intentID)
	})
}

func (p *breakerProvider) CancelIntent(ctx context.Context, intentID string) error {
	_, err := call(p, "cancel_intent", func() (any, error) {
		return nil, p.inner.CancelIntent(ctx, intentID)
	})
	return err
}

func (p *breakerProvider) Refund(ctx context.Context, intentID string, amount int64, reason string) (*model.ProviderRefund, error) {
	return call(p, "refund", func() (*model.ProviderRefund, error) {
		return p.inner.Refund(ctx, intentID, amount, reason)
	})
}

func (p *breakerProvider) ParseWebhook(ctx context.Context, payload []byte, headers map[string]string) (*model.WebhookNotification, error) {
	return p.inner.ParseWebhook(ctx, payload, headers)
}

// call runs fn through the breaker and records its duration.
func call[T any](p *breakerProvider, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := p.breaker.Execute(func() (any, error) {
		return fn()
	})
	p.metrics.RecordProviderCall(string(p.inner.Name()), operation, time.Since(start))

	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	return result.(T), nil
}

var _ outbound.PaymentProviderPort = (*breakerProvider)(nil)
