package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector(prometheus.NewRegistry())

	t.Run("Checkout counters", func(t *testing.T) {
		m.RecordCheckout("self", "ok")
		m.RecordCheckout("self", "ok")
		m.RecordCheckout("link", "gateway_error")

		assert.Equal(t, 2.0, testutil.ToFloat64(m.checkoutTotal.WithLabelValues("self", "ok")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutTotal.WithLabelValues("link", "gateway_error")))
	})

	t.Run("Verification and orphans", func(t *testing.T) {
		m.RecordVerification("invalid")
		m.RecordOrphans(3)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.verificationsTotal.WithLabelValues("invalid")))
		assert.Equal(t, 3.0, testutil.ToFloat64(m.orphansTotal))
	})

	t.Run("HTTP and cache", func(t *testing.T) {
		m.RecordHTTPRequest("GET", "/products", "2xx", 10*time.Millisecond, 512)
		m.RecordCacheOperation("product", true)
		m.RecordCacheOperation("product", false)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/products", "2xx")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("product")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMissesTotal.WithLabelValues("product")))
	})
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, "2xx", StatusCategory(201))
	assert.Equal(t, "4xx", StatusCategory(404))
	assert.Equal(t, "5xx", StatusCategory(502))
	assert.Equal(t, "unknown", StatusCategory(0))
}
