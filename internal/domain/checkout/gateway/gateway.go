// Package gateway wraps the payment provider behind a small interface so
// checkout and reconciliation can be tested without network access.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrGateway = errors.New("payment gateway error")

// Self-booking orders carry this receipt prefix and type note. Orders the
// gateway opens for paid payment links, or that other integrations on the
// same merchant account create, carry neither.
const (
	ReceiptPrefix   = "receipt_"
	NoteType        = "type"
	SelfBookingType = "self-booking"
)

// Order is a gateway-side monetary order
type Order struct {
	ID        string            `json:"id"`
	Amount    int64             `json:"amount"` // paise
	Currency  string            `json:"currency"`
	Receipt   string            `json:"receipt"`
	Status    string            `json:"status"`
	Notes     map[string]string `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"-"`
}

// SelfBooking reports whether the order was opened by the self checkout flow
func (o Order) SelfBooking() bool {
	return o.Notes[NoteType] == SelfBookingType && strings.HasPrefix(o.Receipt, ReceiptPrefix)
}

// Major converts the paise amount back to rupees
func (o Order) Major() decimal.Decimal {
	return decimal.New(o.Amount, -2)
}

type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]interface{}
}

type LinkCustomer struct {
	Name    string
	Email   string
	Contact string
}

type LinkRequest struct {
	Amount      int64
	Currency    string
	Description string
	Customer    LinkCustomer
	Notes       map[string]interface{}
	CallbackURL string
}

// PaymentLink is a shareable hosted payment page
type PaymentLink struct {
	ID       string
	ShortURL string
	Status   string
}

type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	CreatePaymentLink(ctx context.Context, req LinkRequest) (*PaymentLink, error)
	CancelPaymentLink(ctx context.Context, id string) error
	// ListOrders pages gateway orders created in [from, to]
	ListOrders(ctx context.Context, from, to time.Time, count, skip int) ([]Order, error)
}

// ToMinor converts rupees to paise, rounding half away from zero
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
