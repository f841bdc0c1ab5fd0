package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Store
	OrdersCreatedTotal    *prometheus.CounterVec
	OrderValue            *prometheus.HistogramVec
	OrderTransitionsTotal *prometheus.CounterVec
	CartOperationsTotal   *prometheus.CounterVec

	// Payments
	PaymentsTotal          *prometheus.CounterVec
	ProviderCallDuration   *prometheus.HistogramVec
	ProviderBreakerState   *prometheus.GaugeVec
	WebhooksReceivedTotal  *prometheus.CounterVec
	ReconciledIntentsTotal *prometheus.CounterVec

	// Auth
	AuthEventsTotal *prometheus.CounterVec

	// Cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New creates metrics registered with the default Prometheus registry.
func New(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics registered with reg.
func NewWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "carzone"
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),

		OrdersCreatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of orders placed",
		}, []string{"currency"}),
		OrderValue: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "value_minor_units",
			Help:      "Order totals in minor currency units",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
		}, []string{"currency"}),
		OrderTransitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order status transitions",
		}, []string{"from", "to"}),
		CartOperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart mutations by operation",
		}, []string{"operation"}),

		PaymentsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "total",
			Help:      "Payment outcomes by provider",
		}, []string{"provider", "status"}),
		ProviderCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of payment provider API calls",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"provider", "operation"}),
		ProviderBreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "breaker_state",
			Help:      "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		}, []string{"provider"}),
		WebhooksReceivedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "webhooks_total",
			Help:      "Webhook deliveries by provider and outcome",
		}, []string{"provider", "outcome"}),
		ReconciledIntentsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "reconciled_total",
			Help:      "Stale intents settled by the reconciler",
		}, []string{"provider", "status"}),

		AuthEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Total number of auth events",
		}, []string{"event", "provider"}),

		CacheHitsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of cache hits",
		}, []string{"cache"}),
		CacheMissesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of cache misses",
		}, []string{"cache"}),
	}
}

// Record and Set methods are no-ops on a nil *Metrics.

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCodeToString(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOrderCreated records a placed order and its value.
func (m *Metrics) RecordOrderCreated(currency string, total int64) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.WithLabelValues(currency).Inc()
	m.OrderValue.WithLabelValues(currency).Observe(float64(total))
}

// RecordOrderTransition records an order status change.
func (m *Metrics) RecordOrderTransition(from, to string) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordCartOperation records a cart mutation.
func (m *Metrics) RecordCartOperation(operation string) {
	if m == nil {
		return
	}
	m.CartOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordPayment records a payment outcome.
func (m *Metrics) RecordPayment(provider, status string) {
	if m == nil {
		return
	}
	m.PaymentsTotal.WithLabelValues(provider, status).Inc()
}

// RecordProviderCall records the latency of one provider API call.
func (m *Metrics) RecordProviderCall(provider, operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ProviderCallDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// SetBreakerState records a circuit breaker state (0 closed, 1 half-open, 2 open).
func (m *Metrics) SetBreakerState(provider string, state int) {
	if m == nil {
		return
	}
	m.ProviderBreakerState.WithLabelValues(provider).Set(float64(state))
}

// RecordWebhook records a webhook delivery.
func (m *Metrics) RecordWebhook(provider, outcome string) {
	if m == nil {
		return
	}
	m.WebhooksReceivedTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordReconciled records an intent the reconciler settled.
func (m *Metrics) RecordReconciled(provider, status string) {
	if m == nil {
		return
	}
	m.ReconciledIntentsTotal.WithLabelValues(provider, status).Inc()
}

// RecordAuthEvent records an auth event.
func (m *Metrics) RecordAuthEvent(event, provider string) {
	if m == nil {
		return
	}
	m.AuthEventsTotal.WithLabelValues(event, provider).Inc()
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
