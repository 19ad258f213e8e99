package model

import (
	order "github.com/jjhbk/Devrang/internal/domain/order/model"

	"github.com/shopspring/decimal"
)

const (
	FlowSelf = "self"
	FlowLink = "link"
)

// CreateOrderRequest is posted by the storefront at checkout
type CreateOrderRequest struct {
	Items       order.Items             `json:"items"`
	Customer    *order.CustomerSnapshot `json:"customer"`
	TotalAmount decimal.Decimal         `json:"totalAmount"`
	IsSelf      bool                    `json:"isSelf"`
}

func (r CreateOrderRequest) Flow() string {
	if r.IsSelf {
		return FlowSelf
	}
	return FlowLink
}

// GatewayOrder is the part of the gateway order the widget needs
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrderResponse is {order, keyId} for self checkout and
// {orderId, paymentLink} for link checkout.
type CreateOrderResponse struct {
	Order       *GatewayOrder `json:"order,omitempty"`
	KeyID       string        `json:"keyId,omitempty"`
	OrderID     string        `json:"orderId,omitempty"`
	PaymentLink string        `json:"paymentLink,omitempty"`
}

// VerifyRequest carries the widget's completion triple plus the cart snapshot
type VerifyRequest struct {
	OrderID   string                  `json:"razorpay_order_id" binding:"required"`
	PaymentID string                  `json:"razorpay_payment_id" binding:"required"`
	Signature string                  `json:"razorpay_signature" binding:"required"`
	Items     order.Items             `json:"items"`
	Customer  *order.CustomerSnapshot `json:"customer"`
}

const VerifyOK = "ok"

type VerifyResponse struct {
	Status string `json:"status"`
}
