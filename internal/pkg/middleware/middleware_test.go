package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/metrics"
	"github.com/jjhbk/Devrang/pkg/response"
	"github.com/jjhbk/Devrang/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), RecoveryMiddleware())
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		op, _ := identity.From(c)
		response.Success(c, gin.H{"id": op.ID, "admin": op.Admin})
	})
	r.GET("/admin/ping", AuthMiddleware(cfg), AdminMiddleware(), func(c *gin.Context) {
		response.Success(c, "pong")
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func token(t *testing.T, id, email string) string {
	t.Helper()
	tok, _, err := utils.GenerateToken(utils.Claims{OperatorID: id, Email: email})
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	config.GlobalConfig.JWT.Secret = testSecret
	cfg := &config.Config{Admin: config.AdminConfig{Emails: []string{"admin@astrogems.com"}}}
	r := newRouter(cfg)

	t.Run("Missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid token attaches operator", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "op-1", "astro@gem.com"))
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data struct {
				ID    string `json:"id"`
				Admin bool   `json:"admin"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "op-1", body.Data.ID)
		assert.False(t, body.Data.Admin)
		assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	})

	t.Run("Admin route rejects non admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "op-1", "astro@gem.com"))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin route allows listed email", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "op-2", "Admin@AstroGems.com"))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Panic becomes 500 envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal server error")
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(NewIPRateLimiter(1, 2)))
	r.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestIPRateLimiterCleanup(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	l.GetLimiter("10.0.0.1")
	assert.Equal(t, 0, l.Cleanup(1<<62))
	assert.Equal(t, 1, l.Cleanup(-1))
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewMetricsCollector(prometheus.NewRegistry())
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
