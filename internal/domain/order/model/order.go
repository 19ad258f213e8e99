package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/jjhbk/Devrang/pkg/model"

	"github.com/shopspring/decimal"
)

// ItemSnapshot is a cart line frozen at checkout
type ItemSnapshot struct {
	Name     string          `bson:"name" json:"name"`
	Price    decimal.Decimal `bson:"price" json:"price"`
	Quantity int             `bson:"quantity" json:"quantity"`
	ImageURL string          `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Brand    string          `bson:"brand,omitempty" json:"brand,omitempty"`
}

// Subtotal is Price × Quantity
func (i ItemSnapshot) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Items is stored as one jsonb column in postgres and an array in mongo
type Items []ItemSnapshot

// Total sums every line subtotal
func (it Items) Total() decimal.Decimal {
	total := decimal.Zero
	for _, i := range it {
		total = total.Add(i.Subtotal())
	}
	return total
}

func (it Items) Value() (driver.Value, error) {
	if it == nil {
		return "[]", nil
	}
	b, err := json.Marshal(it)
	return string(b), err
}

func (it *Items) Scan(src interface{}) error {
	return scanJSON(src, it)
}

// CustomerSnapshot is the recipient frozen at checkout
type CustomerSnapshot struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
}

func (c CustomerSnapshot) IsZero() bool {
	return c == CustomerSnapshot{}
}

func (c CustomerSnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	return string(b), err
}

func (c *CustomerSnapshot) Scan(src interface{}) error {
	return scanJSON(src, c)
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported jsonb source")
	}
}

// Order is a checkout record. A verified payment replaces its snapshots.
type Order struct {
	model.BaseModel `bson:",inline"`
	OrderID         string           `gorm:"column:order_id;uniqueIndex;not null" bson:"order_id" json:"orderId"`
	Items           Items            `gorm:"type:jsonb" bson:"items" json:"items"`
	Customer        CustomerSnapshot `gorm:"type:jsonb" bson:"customer" json:"customer"`
	Amount          decimal.Decimal  `gorm:"type:numeric(12,2);not null" bson:"amount" json:"amount"`
	Currency        string           `gorm:"not null" bson:"currency" json:"currency"`
	Status          Status           `gorm:"index;not null" bson:"status" json:"status"`
	PaymentID       string           `gorm:"column:payment_id" bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	PaymentLink     string           `bson:"paymentLink,omitempty" json:"paymentLink,omitempty"`
	TrackingNumber  string           `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	Receipt         string           `bson:"receipt,omitempty" json:"receipt,omitempty"`
	CreatedBy       string           `gorm:"index" bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// HasSnapshots is false only for orders recovered from the gateway without cart data
func (o *Order) HasSnapshots() bool {
	return len(o.Items) > 0 || !o.Customer.IsZero()
}

// OrderFilter narrows List
type OrderFilter struct {
	Status    Status
	CreatedBy string
}

// PaidUpdate is what a verified payment writes. Items and Customer are
// only applied when non-nil. KeepStatus records the payment without moving
// an order that is already past payment back to paid.
type PaidUpdate struct {
	PaymentID  string
	Items      Items
	Customer   *CustomerSnapshot
	KeepStatus bool
}
