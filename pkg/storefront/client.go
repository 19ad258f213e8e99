package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	checkout "github.com/jjhbk/Devrang/internal/domain/checkout/model"
)

// Client is the part of the backend API the checkout session talks to
type Client interface {
	CreateOrder(ctx context.Context, req checkout.CreateOrderRequest) (*checkout.CreateOrderResponse, error)
	Verify(ctx context.Context, req checkout.VerifyRequest) (*checkout.VerifyResponse, error)
}

// APIError is a non-2xx answer from the backend, decoded from the envelope
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d (code %d): %s", e.Status, e.Code, e.Message)
}

// APIClient calls the backend over HTTP with the operator's bearer token
type APIClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

// WithHTTPClient swaps the underlying client, mostly for tests
func (c *APIClient) WithHTTPClient(hc *http.Client) *APIClient {
	c.client = hc
	return c
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 300 || env.Code != 0 {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// Get fetches path and decodes the envelope data into out, which may be nil
func (c *APIClient) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Login exchanges credentials for a bearer token and keeps it for later calls
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

func (c *APIClient) CreateOrder(ctx context.Context, req checkout.CreateOrderRequest) (*checkout.CreateOrderResponse, error) {
	var out checkout.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/razorpay/order", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Verify(ctx context.Context, req checkout.VerifyRequest) (*checkout.VerifyResponse, error) {
	var out checkout.VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/razorpay/verify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
