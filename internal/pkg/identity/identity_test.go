package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := From(c)
	assert.False(t, ok)

	Set(c, Operator{ID: "op-1", Email: "astro@gem.com"})
	op, ok := From(c)
	assert.True(t, ok)
	assert.Equal(t, "op-1", op.ID)
	assert.False(t, op.Anonymous())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Astro", Operator{Name: "Astro", Email: "x@y.z"}.DisplayName())
	assert.Equal(t, "astro", Operator{Email: "astro@gem.com"}.DisplayName())
	assert.Equal(t, "", Operator{}.DisplayName())
	assert.True(t, Operator{}.Anonymous())
}
