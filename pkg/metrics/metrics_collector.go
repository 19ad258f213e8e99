package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector holds every prometheus series the service exports
type MetricsCollector struct {
	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// cache
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// checkout
	checkoutTotal      *prometheus.CounterVec
	verificationsTotal *prometheus.CounterVec
	gatewayErrorsTotal *prometheus.CounterVec
	orphansTotal       prometheus.Counter
	notificationsTotal *prometheus.CounterVec

	// runtime
	activeGoroutines prometheus.Gauge
	memoryUsage      prometheus.Gauge
}

// NewMetricsCollector registers all series on reg. Tests pass a fresh
// prometheus.NewRegistry() so collectors never clash.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	f := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		cacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),

		cacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),

		checkoutTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_orders_total",
				Help: "Checkout attempts by flow and result",
			},
			[]string{"flow", "result"},
		),

		verificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_verifications_total",
				Help: "Payment signature verifications by outcome",
			},
			[]string{"outcome"},
		),

		gatewayErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_errors_total",
				Help: "Failed calls to the payment gateway",
			},
			[]string{"operation"},
		),

		orphansTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_orphans_recovered_total",
				Help: "Gateway orders without a local record that were recovered",
			},
		),

		notificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Operator notifications by result",
			},
			[]string{"result"},
		),

		activeGoroutines: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_goroutines",
				Help: "Number of active goroutines",
			},
		),

		memoryUsage: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
		),
	}
}

// RecordHTTPRequest records one served request
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordCacheOperation counts a hit or miss for keyPrefix
func (m *MetricsCollector) RecordCacheOperation(keyPrefix string, hit bool) {
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
	}
}

// RecordCheckout flow is "self" or "link", result "ok", "invalid", "gateway_error" or "store_error"
func (m *MetricsCollector) RecordCheckout(flow, result string) {
	m.checkoutTotal.WithLabelValues(flow, result).Inc()
}

// RecordVerification outcome is "ok", "invalid", "orphan" or "replay"
func (m *MetricsCollector) RecordVerification(outcome string) {
	m.verificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsCollector) RecordGatewayError(operation string) {
	m.gatewayErrorsTotal.WithLabelValues(operation).Inc()
}

func (m *MetricsCollector) RecordOrphans(n int) {
	m.orphansTotal.Add(float64(n))
}

func (m *MetricsCollector) RecordNotification(success bool) {
	if success {
		m.notificationsTotal.WithLabelValues("sent").Inc()
	} else {
		m.notificationsTotal.WithLabelValues("failed").Inc()
	}
}

// UpdateRuntime sets goroutine and heap gauges
func (m *MetricsCollector) UpdateRuntime(goroutines int, heapBytes uint64) {
	m.activeGoroutines.Set(float64(goroutines))
	m.memoryUsage.Set(float64(heapBytes))
}

// StatusCategory buckets an HTTP status into 2xx/3xx/4xx/5xx
func StatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector returns the collector registered on the default registry
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
