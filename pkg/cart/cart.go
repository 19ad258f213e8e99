// Package cart is the operator's in-memory basket. It never talks to the
// server; checkout turns it into an order snapshot.
package cart

import (
	"sync"

	catalog "github.com/jjhbk/Devrang/internal/domain/catalog/model"
	order "github.com/jjhbk/Devrang/internal/domain/order/model"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart. Quantity is always positive.
type Line struct {
	Product     catalog.Product
	Quantity    int
	CustomPrice *decimal.Decimal
}

// UnitPrice is the negotiated price when set, otherwise the catalog price
func (l Line) UnitPrice() decimal.Decimal {
	if l.CustomPrice != nil {
		return *l.CustomPrice
	}
	return l.Product.Price
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is safe for concurrent use
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add merges into an existing line for the same product. qty <= 0 is ignored.
func (c *Cart) Add(p catalog.Product, qty int) {
	if qty <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity += qty
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: qty})
}

// UpdateQuantity replaces the quantity and, when customPrice is non-nil,
// the price override. qty <= 0 removes the line; unknown ids are ignored.
func (c *Cart) UpdateQuantity(productID string, qty int, customPrice *decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(productID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Quantity = qty
	if customPrice != nil {
		p := *customPrice
		c.lines[i].CustomPrice = &p
	}
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total is recomputed from the lines on every call
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Snapshot freezes the cart into order items priced at UnitPrice
func (c *Cart) Snapshot() order.Items {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make(order.Items, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, order.ItemSnapshot{
			Name:     l.Product.Name,
			Price:    l.UnitPrice(),
			Quantity: l.Quantity,
			ImageURL: l.Product.ImageURL,
			Brand:    l.Product.Brand,
		})
	}
	return items
}
