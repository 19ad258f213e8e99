package service

import (
	"context"
	"sync"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/checkout/gateway"
	order "github.com/jjhbk/Devrang/internal/domain/order/model"
	"github.com/jjhbk/Devrang/internal/domain/order/repository"
	"github.com/jjhbk/Devrang/internal/pkg/push"

	"github.com/stretchr/testify/mock"
)

// memOrders is an in-memory OrderRepository keyed by gateway id
type memOrders struct {
	mu        sync.Mutex
	byOrderID map[string]*order.Order
	createErr error
	writes    int
}

func newMemOrders() *memOrders {
	return &memOrders{byOrderID: map[string]*order.Order{}}
}

func (m *memOrders) get(orderID string) (order.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byOrderID[orderID]
	if !ok {
		return order.Order{}, false
	}
	return *o, true
}

func (m *memOrders) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byOrderID[o.OrderID]; ok {
		return repository.ErrDuplicate
	}
	cp := *o
	m.byOrderID[o.OrderID] = &cp
	m.writes++
	return nil
}

func (m *memOrders) GetByID(ctx context.Context, id string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.byOrderID {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrders) GetByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	o, ok := m.get(orderID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) List(ctx context.Context, filter order.OrderFilter, offset, limit int) ([]order.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []order.Order
	for _, o := range m.byOrderID {
		if filter.Status == "" || o.Status == filter.Status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) MarkPaid(ctx context.Context, orderID string, upd order.PaidUpdate, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byOrderID[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.PaymentID = upd.PaymentID
	if !upd.KeepStatus {
		o.Status = order.StatusPaid
	}
	o.UpdatedAt = at
	if upd.Items != nil {
		o.Items = upd.Items
	}
	if upd.Customer != nil {
		o.Customer = *upd.Customer
	}
	m.writes++
	return nil
}

func (m *memOrders) update(id string, fn func(o *order.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.byOrderID {
		if o.ID == id {
			fn(o)
			m.writes++
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memOrders) UpdateStatus(ctx context.Context, id string, status order.Status, at time.Time) error {
	return m.update(id, func(o *order.Order) { o.Status, o.UpdatedAt = status, at })
}

func (m *memOrders) UpdateTracking(ctx context.Context, id, tracking string, at time.Time) error {
	return m.update(id, func(o *order.Order) { o.TrackingNumber, o.UpdatedAt = tracking, at })
}

func (m *memOrders) ExistingOrderIDs(ctx context.Context, orderIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := map[string]bool{}
	for _, id := range orderIDs {
		if _, ok := m.byOrderID[id]; ok {
			found[id] = true
		}
	}
	return found, nil
}

// MockGateway is a mock of gateway.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Order), args.Error(1)
}

func (m *MockGateway) CreatePaymentLink(ctx context.Context, req gateway.LinkRequest) (*gateway.PaymentLink, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentLink), args.Error(1)
}

func (m *MockGateway) CancelPaymentLink(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *MockGateway) ListOrders(ctx context.Context, from, to time.Time, count, skip int) ([]gateway.Order, error) {
	args := m.Called(from, to, count, skip)
	return args.Get(0).([]gateway.Order), args.Error(1)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []push.Message
}

func (n *recordingNotifier) Notify(msg push.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}
