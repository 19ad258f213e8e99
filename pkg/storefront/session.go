// Package storefront drives checkout from the operator's side: it owns the
// cart, the chosen recipient and the payment widget, and talks to the
// backend through a Client.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	checkout "github.com/jjhbk/Devrang/internal/domain/checkout/model"
	customer "github.com/jjhbk/Devrang/internal/domain/customer/model"
	order "github.com/jjhbk/Devrang/internal/domain/order/model"
	"github.com/jjhbk/Devrang/pkg/cart"
	"github.com/jjhbk/Devrang/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNoRecipient        = errors.New("select a customer or self before checkout")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrBusy               = errors.New("checkout already in progress")
	ErrCheckoutFailed     = errors.New("checkout failed")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrWidgetDismissed    = errors.New("payment window closed")
)

type State int

const (
	NoSelection State = iota
	Ready
	Submitting
	SelfPaymentPending
	Verifying
	Confirmed
	Failed
	LinkIssued
)

func (s State) String() string {
	switch s {
	case NoSelection:
		return "no_selection"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case SelfPaymentPending:
		return "self_payment_pending"
	case Verifying:
		return "verifying"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	case LinkIssued:
		return "link_issued"
	}
	return "unknown"
}

func (s State) busy() bool {
	return s == Submitting || s == SelfPaymentPending || s == Verifying
}

const (
	defaultName    = "Unknown User"
	defaultEmail   = "unknown@astrogems.com"
	defaultContact = "N/A"
)

// Profile is the signed-in operator, used as the recipient of self orders
type Profile struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// WidgetOptions is what the in-app payment widget is opened with
type WidgetOptions struct {
	Key         string
	Amount      int64
	Currency    string
	Name        string
	Description string
	OrderID     string
	Prefill     order.CustomerSnapshot
}

// PaymentResult is the completion triple the widget hands back
type PaymentResult struct {
	OrderID   string
	PaymentID string
	Signature string
}

// PaymentWidget collects a payment for a gateway order. Implementations
// return ErrWidgetDismissed when the operator closes it.
type PaymentWidget interface {
	Open(ctx context.Context, opts WidgetOptions) (*PaymentResult, error)
}

// Confirmation describes a finished checkout
type Confirmation struct {
	Type        string
	OrderID     string
	PaymentID   string
	PaymentLink string
	Amount      decimal.Decimal
	Items       int
}

// Session is one operator's checkout page. Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	cart     *cart.Cart
	client   Client
	widget   PaymentWidget
	profile  Profile
	merchant string

	state    State
	self     bool
	customer *customer.Customer
}

func NewSession(c *cart.Cart, client Client, widget PaymentWidget, profile Profile, merchant string) *Session {
	if c == nil {
		c = cart.New()
	}
	return &Session{
		cart:     c,
		client:   client,
		widget:   widget,
		profile:  profile,
		merchant: merchant,
	}
}

func (s *Session) Cart() *cart.Cart {
	return s.cart
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SelectSelf() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = true
	s.customer = nil
	s.settle()
}

func (s *Session) SelectCustomer(c customer.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = false
	s.customer = &c
	s.settle()
}

func (s *Session) ClearRecipient() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = false
	s.customer = nil
	s.settle()
}

// settle moves an idle session between NoSelection and Ready. Caller holds mu.
func (s *Session) settle() {
	if s.state.busy() {
		return
	}
	if s.self || s.customer != nil {
		s.state = Ready
	} else {
		s.state = NoSelection
	}
}

func (s *Session) recipient() order.CustomerSnapshot {
	if s.self {
		return order.CustomerSnapshot{
			Name:    orDefault(s.profile.Name, defaultName),
			Email:   orDefault(s.profile.Email, defaultEmail),
			Phone:   orDefault(s.profile.Phone, defaultContact),
			Address: orDefault(s.profile.Address, defaultContact),
		}
	}
	return order.CustomerSnapshot{
		Name:    s.customer.Name,
		Email:   orDefault(s.customer.Email, defaultEmail),
		Phone:   s.customer.Phone,
		Address: s.customer.ShippingAddress,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Checkout submits the cart. Self checkouts open the payment widget and
// verify the result; link checkouts return the shareable link. The cart is
// cleared only once the backend has accepted the order.
func (s *Session) Checkout(ctx context.Context) (*Confirmation, error) {
	s.mu.Lock()
	if s.state.busy() {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if !s.self && s.customer == nil {
		s.mu.Unlock()
		return nil, ErrNoRecipient
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	s.state = Submitting
	self := s.self
	recipient := s.recipient()
	s.mu.Unlock()

	items := s.cart.Snapshot()
	req := checkout.CreateOrderRequest{
		Items:       items,
		Customer:    &recipient,
		TotalAmount: items.Total(),
		IsSelf:      self,
	}

	var (
		conf *Confirmation
		err  error
	)
	if self {
		conf, err = s.checkoutSelf(ctx, req)
	} else {
		conf, err = s.checkoutLink(ctx, req)
	}
	if err != nil {
		s.setState(Failed)
		return nil, err
	}
	return conf, nil
}

func (s *Session) checkoutLink(ctx context.Context, req checkout.CreateOrderRequest) (*Confirmation, error) {
	resp, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		logger.Log.Warn("Create payment link failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	if resp.PaymentLink == "" {
		return nil, fmt.Errorf("%w: no payment link returned", ErrCheckoutFailed)
	}

	s.cart.Clear()
	s.setState(LinkIssued)
	return &Confirmation{
		Type:        checkout.FlowLink,
		OrderID:     resp.OrderID,
		PaymentLink: resp.PaymentLink,
		Amount:      req.TotalAmount,
		Items:       len(req.Items),
	}, nil
}

func (s *Session) checkoutSelf(ctx context.Context, req checkout.CreateOrderRequest) (*Confirmation, error) {
	resp, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		logger.Log.Warn("Create order failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	if resp.Order == nil || resp.Order.ID == "" {
		return nil, fmt.Errorf("%w: no gateway order returned", ErrCheckoutFailed)
	}

	s.setState(SelfPaymentPending)
	result, err := s.widget.Open(ctx, WidgetOptions{
		Key:         resp.KeyID,
		Amount:      resp.Order.Amount,
		Currency:    resp.Order.Currency,
		Name:        s.merchant,
		Description: fmt.Sprintf("Order for %d item(s)", len(req.Items)),
		OrderID:     resp.Order.ID,
		Prefill:     *req.Customer,
	})
	if err != nil {
		if errors.Is(err, ErrWidgetDismissed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	s.setState(Verifying)
	vr, err := s.client.Verify(ctx, checkout.VerifyRequest{
		OrderID:   result.OrderID,
		PaymentID: result.PaymentID,
		Signature: result.Signature,
		Items:     req.Items,
		Customer:  req.Customer,
	})
	if err != nil {
		logger.Log.Warn("Payment verification failed",
			zap.String("order_id", result.OrderID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if vr.Status != checkout.VerifyOK {
		return nil, fmt.Errorf("%w: status %q", ErrVerificationFailed, vr.Status)
	}

	s.cart.Clear()
	s.setState(Confirmed)
	return &Confirmation{
		Type:      checkout.FlowSelf,
		OrderID:   result.OrderID,
		PaymentID: result.PaymentID,
		Amount:    req.TotalAmount,
		Items:     len(req.Items),
	}, nil
}
