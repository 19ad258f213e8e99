// Package identity carries the authenticated operator from the auth
// middleware to handlers. Services receive the Operator as an argument
// and never read it from request state.
package identity

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKey = "identity.operator"

// Operator is the signed-in storefront operator
type Operator struct {
	ID      string
	Email   string
	Name    string
	Phone   string
	Address string
	Admin   bool
}

// Anonymous reports whether no operator is attached
func (o Operator) Anonymous() bool {
	return o.ID == ""
}

// DisplayName falls back to the email local part when Name is empty
func (o Operator) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	if i := strings.IndexByte(o.Email, '@'); i > 0 {
		return o.Email[:i]
	}
	return o.Email
}

// Set attaches op to the request
func Set(c *gin.Context, op Operator) {
	c.Set(contextKey, op)
}

// From returns the operator attached by the auth middleware
func From(c *gin.Context) (Operator, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Operator{}, false
	}
	op, ok := v.(Operator)
	return op, ok
}
