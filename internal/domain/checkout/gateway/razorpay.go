package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// maxPageSize is the largest count the orders API accepts
const maxPageSize = 100

type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	All(queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type linkAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Cancel(id string, data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Razorpay implements Gateway on razorpay-go
type Razorpay struct {
	orders orderAPI
	links  linkAPI
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{orders: client.Order, links: client.PaymentLink}
}

func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := r.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrGateway, err)
	}
	o := decodeOrder(body)
	if o.ID == "" {
		return nil, fmt.Errorf("%w: create order: response without id", ErrGateway)
	}
	return &o, nil
}

func (r *Razorpay) CreatePaymentLink(ctx context.Context, req LinkRequest) (*PaymentLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"amount":         req.Amount,
		"currency":       req.Currency,
		"accept_partial": false,
		"description":    req.Description,
		"customer": map[string]interface{}{
			"name":    req.Customer.Name,
			"email":   req.Customer.Email,
			"contact": req.Customer.Contact,
		},
		"notify": map[string]interface{}{
			"sms":   true,
			"email": true,
		},
		"reminder_enable": true,
		"notes":           req.Notes,
		"callback_url":    req.CallbackURL,
		"callback_method": "get",
	}

	body, err := r.links.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment link: %v", ErrGateway, err)
	}
	link := &PaymentLink{
		ID:       str(body, "id"),
		ShortURL: str(body, "short_url"),
		Status:   str(body, "status"),
	}
	if link.ID == "" || link.ShortURL == "" {
		return nil, fmt.Errorf("%w: create payment link: incomplete response", ErrGateway)
	}
	return link, nil
}

func (r *Razorpay) CancelPaymentLink(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.links.Cancel(id, nil, nil); err != nil {
		return fmt.Errorf("%w: cancel payment link %s: %v", ErrGateway, id, err)
	}
	return nil
}

func (r *Razorpay) ListOrders(ctx context.Context, from, to time.Time, count, skip int) ([]Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count <= 0 || count > maxPageSize {
		count = maxPageSize
	}
	body, err := r.orders.All(map[string]interface{}{
		"from":  from.Unix(),
		"to":    to.Unix(),
		"count": count,
		"skip":  skip,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", ErrGateway, err)
	}

	raw, _ := body["items"].([]interface{})
	orders := make([]Order, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			orders = append(orders, decodeOrder(m))
		}
	}
	return orders, nil
}

func decodeOrder(m map[string]interface{}) Order {
	o := Order{
		ID:       str(m, "id"),
		Amount:   integer(m, "amount"),
		Currency: str(m, "currency"),
		Receipt:  str(m, "receipt"),
		Status:   str(m, "status"),
		Notes:    notes(m),
	}
	if ts := integer(m, "created_at"); ts > 0 {
		o.CreatedAt = time.Unix(ts, 0).UTC()
	}
	return o
}

// notes keeps the string values; an order without notes comes back as an
// empty JSON array rather than an object
func notes(m map[string]interface{}) map[string]string {
	raw, ok := m["notes"].(map[string]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// integer reads a JSON number whichever way the decoder produced it
func integer(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
