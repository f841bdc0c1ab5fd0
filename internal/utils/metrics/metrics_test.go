package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return NewWithRegistry("test", prometheus.NewRegistry())
}

func TestRecordHTTPRequest(t *testing.T) {
	m := newTestMetrics()

	m.RecordHTTPRequest("GET", "/api/products", 200, 10*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/products", 204, 5*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/cart", 422, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/products", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/cart", "4xx")))
}

func TestRecordOrderCreated(t *testing.T) {
	m := newTestMetrics()

	m.RecordOrderCreated("usd", 259900)
	m.RecordOrderCreated("usd", 1000)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreatedTotal.WithLabelValues("usd")))
}

func TestRecordPaymentsAndTransitions(t *testing.T) {
	m := newTestMetrics()

	m.RecordPayment("stripe", "succeeded")
	m.RecordOrderTransition("pending", "processing")
	m.RecordWebhook("alipay", "duplicate")
	m.RecordReconciled("stripe", "failed")
	m.SetBreakerState("stripe", 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentsTotal.WithLabelValues("stripe", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderTransitionsTotal.WithLabelValues("pending", "processing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhooksReceivedTotal.WithLabelValues("alipay", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconciledIntentsTotal.WithLabelValues("stripe", "failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderBreakerState.WithLabelValues("stripe")))
}

func TestCacheCounters(t *testing.T) {
	m := newTestMetrics()

	m.RecordCacheHit("product")
	m.RecordCacheHit("product")
	m.RecordCacheMiss("product")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("product")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("product")))
}

func TestStatusCodeToString(t *testing.T) {
	tests := map[int]string{200: "2xx", 301: "3xx", 404: "4xx", 503: "5xx", 0: "unknown"}
	for code, want := range tests {
		assert.Equal(t, want, statusCodeToString(code))
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOrderCreated("usd", 100)
		m.RecordPayment("stripe", "failed")
		m.SetBreakerState("stripe", 1)
	})
}
