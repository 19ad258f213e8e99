package middleware

import (
	"net/http"
	"runtime"
	"time"

	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/metrics"
	"github.com/jjhbk/Devrang/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsMiddleware records request count, latency and size per route template
func MetricsMiddleware(m *metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			metrics.StatusCategory(c.Writer.Status()),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}

// RuntimeSampler refreshes goroutine and heap gauges every interval until done closes
func RuntimeSampler(m *metrics.MetricsCollector, interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		m.UpdateRuntime(runtime.NumGoroutine(), ms.HeapAlloc)

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

// RecoveryMiddleware turns panics into the standard 500 envelope
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", c.GetString(TraceIDKey)),
		)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "internal server error")
		c.Abort()
	})
}

// SecurityHeadersMiddleware sets the usual hardening headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
