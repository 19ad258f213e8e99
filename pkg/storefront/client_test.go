package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	checkout "github.com/jjhbk/Devrang/internal/domain/checkout/model"
	"github.com/jjhbk/Devrang/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(response.Response{Data: map[string]string{"token": "tok"}})
		case "/razorpay/order":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var req checkout.CreateOrderRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.True(t, req.IsSelf)
			json.NewEncoder(w).Encode(response.Response{Data: checkout.CreateOrderResponse{
				Order: &checkout.GatewayOrder{ID: "order_1", Amount: 9000, Currency: "INR"},
				KeyID: "rzp_test_key",
			}})
		case "/razorpay/verify":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(response.Response{Code: response.ErrInvalidSignature, Message: "invalid-signature"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL+"/", "").WithHTTPClient(srv.Client())
	ctx := context.Background()

	token, err := c.Login(ctx, "asha@astro.in", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	resp, err := c.CreateOrder(ctx, checkout.CreateOrderRequest{IsSelf: true})
	require.NoError(t, err)
	assert.Equal(t, "order_1", resp.Order.ID)
	assert.Equal(t, "rzp_test_key", resp.KeyID)

	_, err = c.Verify(ctx, checkout.VerifyRequest{OrderID: "order_1"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, response.ErrInvalidSignature, apiErr.Code)
	assert.Equal(t, "invalid-signature", apiErr.Message)
}
