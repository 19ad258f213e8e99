package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/checkout/gateway"
	"github.com/jjhbk/Devrang/internal/domain/checkout/model"
	order "github.com/jjhbk/Devrang/internal/domain/order/model"
	"github.com/jjhbk/Devrang/internal/domain/order/repository"
	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/internal/pkg/push"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidCheckout  = errors.New("invalid checkout request")
	ErrInvalidSignature = errors.New("invalid-signature")
	ErrGateway          = errors.New("payment gateway unavailable")
)

// Notifier queues an operator notification without blocking
type Notifier interface {
	Notify(msg push.Message)
}

type CheckoutService interface {
	CreateOrder(ctx context.Context, op identity.Operator, req model.CreateOrderRequest) (*model.CreateOrderResponse, error)
	Verify(ctx context.Context, op identity.Operator, req model.VerifyRequest) (*model.VerifyResponse, error)
}

type checkoutService struct {
	repo     repository.OrderRepository
	gateway  gateway.Gateway
	notifier Notifier
	metrics  *metrics.MetricsCollector
	cfg      config.RazorpayConfig
	siteURL  string
	now      func() time.Time
}

func NewCheckoutService(
	repo repository.OrderRepository,
	gw gateway.Gateway,
	notifier Notifier,
	m *metrics.MetricsCollector,
	cfg config.RazorpayConfig,
	siteURL string,
) CheckoutService {
	return &checkoutService{
		repo:     repo,
		gateway:  gw,
		notifier: notifier,
		metrics:  m,
		cfg:      cfg,
		siteURL:  strings.TrimRight(siteURL, "/"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCheckout, fmt.Sprintf(format, args...))
}

// validate rejects anything the gateway should never see
func validate(req model.CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return invalid("items must not be empty")
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return invalid("items[%d]: name is required", i)
		}
		if item.Quantity <= 0 {
			return invalid("items[%d]: quantity must be positive", i)
		}
		if item.Price.IsNegative() {
			return invalid("items[%d]: price must not be negative", i)
		}
	}
	if req.Customer == nil || strings.TrimSpace(req.Customer.Name) == "" {
		return invalid("customer name is required")
	}
	if !req.TotalAmount.IsPositive() {
		return invalid("totalAmount must be positive")
	}
	if !req.TotalAmount.Round(2).Equal(req.Items.Total().Round(2)) {
		return invalid("totalAmount %s does not match items total %s", req.TotalAmount, req.Items.Total().StringFixed(2))
	}
	return nil
}

func (s *checkoutService) currency() string {
	if s.cfg.Currency == "" {
		return "INR"
	}
	return s.cfg.Currency
}

func (s *checkoutService) CreateOrder(ctx context.Context, op identity.Operator, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	flow := req.Flow()
	if err := validate(req); err != nil {
		s.metrics.RecordCheckout(flow, "invalid")
		return nil, err
	}

	var (
		res *model.CreateOrderResponse
		err error
	)
	if req.IsSelf {
		res, err = s.createSelf(ctx, op, req)
	} else {
		res, err = s.createLink(ctx, op, req)
	}

	switch {
	case err == nil:
		s.metrics.RecordCheckout(flow, "ok")
	case errors.Is(err, ErrGateway):
		s.metrics.RecordCheckout(flow, "gateway_error")
	default:
		s.metrics.RecordCheckout(flow, "store_error")
	}
	return res, err
}

func (s *checkoutService) newOrder(op identity.Operator, req model.CreateOrderRequest) *order.Order {
	o := &order.Order{
		Items:     req.Items,
		Customer:  *req.Customer,
		Amount:    req.TotalAmount.Round(2),
		Currency:  s.currency(),
		CreatedBy: op.Email,
	}
	o.EnsureID()
	return o
}

func (s *checkoutService) createSelf(ctx context.Context, op identity.Operator, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	gwOrder, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   gateway.ToMinor(req.TotalAmount),
		Currency: s.currency(),
		Receipt:  fmt.Sprintf("%s%d", gateway.ReceiptPrefix, s.now().UnixMilli()),
		Notes:    map[string]interface{}{gateway.NoteType: gateway.SelfBookingType},
	})
	if err != nil {
		s.metrics.RecordGatewayError("create_order")
		logger.Log.Error("gateway order creation failed", zap.String("operator", op.Email), zap.Error(err))
		return nil, ErrGateway
	}

	o := s.newOrder(op, req)
	o.OrderID = gwOrder.ID
	o.Receipt = gwOrder.Receipt
	o.Status = order.StatusCreated
	if err := s.repo.Create(ctx, o); err != nil {
		// gateway orders cannot be cancelled; the reconciler records it as orphaned
		logger.Log.Error("gateway order created but not stored",
			zap.String("order_id", gwOrder.ID),
			zap.String("operator", op.Email),
			zap.Error(err))
		return nil, fmt.Errorf("store order %s: %w", gwOrder.ID, err)
	}

	logger.Log.Info("self order created", zap.String("order_id", gwOrder.ID), zap.String("operator", op.Email))
	return &model.CreateOrderResponse{
		Order: &model.GatewayOrder{
			ID:       gwOrder.ID,
			Amount:   gwOrder.Amount,
			Currency: gwOrder.Currency,
			Receipt:  gwOrder.Receipt,
			Status:   gwOrder.Status,
		},
		KeyID: s.cfg.KeyID,
	}, nil
}

func (s *checkoutService) createLink(ctx context.Context, op identity.Operator, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return nil, err
	}
	createdBy := op.Email
	if createdBy == "" {
		createdBy = s.cfg.Merchant + " Dashboard"
	}

	link, err := s.gateway.CreatePaymentLink(ctx, gateway.LinkRequest{
		Amount:      gateway.ToMinor(req.TotalAmount),
		Currency:    s.currency(),
		Description: fmt.Sprintf("Payment for %d item(s)", len(req.Items)),
		Customer: gateway.LinkCustomer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Contact: req.Customer.Phone,
		},
		Notes: map[string]interface{}{
			"items":     string(itemsJSON),
			"createdBy": createdBy,
		},
		CallbackURL: s.siteURL + "/orders",
	})
	if err != nil {
		s.metrics.RecordGatewayError("create_payment_link")
		logger.Log.Error("payment link creation failed", zap.String("customer", req.Customer.Name), zap.Error(err))
		return nil, ErrGateway
	}

	o := s.newOrder(op, req)
	o.OrderID = link.ID
	o.PaymentLink = link.ShortURL
	o.Status = order.StatusLinkCreated
	if err := s.repo.Create(ctx, o); err != nil {
		logger.Log.Error("payment link created but not stored, cancelling",
			zap.String("link_id", link.ID), zap.Error(err))
		if cerr := s.gateway.CancelPaymentLink(context.WithoutCancel(ctx), link.ID); cerr != nil {
			s.metrics.RecordGatewayError("cancel_payment_link")
			logger.Log.Error("payment link cancel failed", zap.String("link_id", link.ID), zap.Error(cerr))
		}
		return nil, fmt.Errorf("store payment link %s: %w", link.ID, err)
	}

	logger.Log.Info("payment link created", zap.String("link_id", link.ID), zap.String("operator", op.Email))
	return &model.CreateOrderResponse{OrderID: link.ID, PaymentLink: link.ShortURL}, nil
}

// Verify checks the completion triple and records the payment on the
// order. Snapshots supplied with the call replace the stored ones. An order
// an admin already moved past payment keeps its status.
func (s *checkoutService) Verify(ctx context.Context, op identity.Operator, req model.VerifyRequest) (*model.VerifyResponse, error) {
	if !gateway.VerifySignature(s.cfg.KeySecret, req.OrderID, req.PaymentID, req.Signature) {
		s.metrics.RecordVerification("invalid")
		logger.Log.Warn("payment signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID),
			zap.String("operator", op.Email))
		return nil, ErrInvalidSignature
	}

	existing, err := s.repo.GetByOrderID(ctx, req.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.recoverOrphan(ctx, op, req)
	}
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", req.OrderID, err)
	}
	return s.markPaid(ctx, existing, req)
}

func (s *checkoutService) markPaid(ctx context.Context, existing *order.Order, req model.VerifyRequest) (*model.VerifyResponse, error) {
	settles := existing.Status.AwaitingPayment()
	upd := order.PaidUpdate{PaymentID: req.PaymentID, KeepStatus: !settles}
	if len(req.Items) > 0 {
		upd.Items = req.Items
	}
	if req.Customer != nil && !req.Customer.IsZero() {
		upd.Customer = req.Customer
	}
	if err := s.repo.MarkPaid(ctx, req.OrderID, upd, s.now()); err != nil {
		return nil, fmt.Errorf("mark order %s paid: %w", req.OrderID, err)
	}

	if !settles {
		s.metrics.RecordVerification("replay")
		logger.Log.Info("payment re-verified",
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID),
			zap.String("status", string(existing.Status)))
		return &model.VerifyResponse{Status: model.VerifyOK}, nil
	}

	s.metrics.RecordVerification("ok")
	logger.Log.Info("payment verified", zap.String("order_id", req.OrderID), zap.String("payment_id", req.PaymentID))
	s.notifyPaid(existing.CreatedBy, req.OrderID, existing.Amount)
	return &model.VerifyResponse{Status: model.VerifyOK}, nil
}

// recoverOrphan stores a verified payment whose order record never made it
// to the database
func (s *checkoutService) recoverOrphan(ctx context.Context, op identity.Operator, req model.VerifyRequest) (*model.VerifyResponse, error) {
	o := &order.Order{
		OrderID:   req.OrderID,
		Items:     req.Items,
		Amount:    req.Items.Total().Round(2),
		Currency:  s.currency(),
		Status:    order.StatusPaid,
		PaymentID: req.PaymentID,
		CreatedBy: op.Email,
	}
	if req.Customer != nil {
		o.Customer = *req.Customer
	}
	o.EnsureID()

	err := s.repo.Create(ctx, o)
	if errors.Is(err, repository.ErrDuplicate) {
		// created concurrently by the reconciler or a parallel verify
		existing, gerr := s.repo.GetByOrderID(ctx, req.OrderID)
		if gerr != nil {
			return nil, fmt.Errorf("load order %s: %w", req.OrderID, gerr)
		}
		return s.markPaid(ctx, existing, req)
	}
	if err != nil {
		return nil, fmt.Errorf("store orphan order %s: %w", req.OrderID, err)
	}

	s.metrics.RecordVerification("orphan")
	logger.Log.Warn("verified payment had no local order, recovered",
		zap.String("order_id", req.OrderID), zap.String("payment_id", req.PaymentID))
	s.notifyPaid(op.Email, req.OrderID, o.Amount)
	return &model.VerifyResponse{Status: model.VerifyOK}, nil
}

func (s *checkoutService) notifyPaid(account, orderID string, amount decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(push.Message{
		Account: account,
		Title:   "Payment received",
		Body:    fmt.Sprintf("Order %s was paid: %s %s", orderID, s.currency(), amount.StringFixed(2)),
		Ext:     map[string]string{"orderId": orderID},
	})
}
