package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/order/model"
	basemodel "github.com/jjhbk/Devrang/pkg/model"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrDuplicate = errors.New("order already exists")
)

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter, offset, limit int) ([]model.Order, int64, error)
	// MarkPaid sets payment id and status=paid on the order keyed by gateway id
	MarkPaid(ctx context.Context, orderID string, upd model.PaidUpdate, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status model.Status, at time.Time) error
	UpdateTracking(ctx context.Context, id, tracking string, at time.Time) error
	// ExistingOrderIDs returns the subset of gateway ids that have a local order
	ExistingOrderIDs(ctx context.Context, orderIDs []string) (map[string]bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	err := r.db.WithContext(ctx).Create(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *orderRepository) first(ctx context.Context, column, value string) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if !basemodel.ValidID(id) {
		return nil, ErrNotFound
	}
	return r.first(ctx, "id", id)
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	return r.first(ctx, "order_id", orderID)
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter, offset, limit int) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) update(ctx context.Context, column, key string, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where(column+" = ?", key).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderID string, upd model.PaidUpdate, at time.Time) error {
	values := map[string]interface{}{
		"payment_id": upd.PaymentID,
		"updated_at": at,
	}
	if !upd.KeepStatus {
		values["status"] = model.StatusPaid
	}
	if upd.Items != nil {
		values["items"] = upd.Items
	}
	if upd.Customer != nil {
		values["customer"] = *upd.Customer
	}
	return r.update(ctx, "order_id", orderID, values)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.Status, at time.Time) error {
	if !basemodel.ValidID(id) {
		return ErrNotFound
	}
	return r.update(ctx, "id", id, map[string]interface{}{"status": status, "updated_at": at})
}

func (r *orderRepository) UpdateTracking(ctx context.Context, id, tracking string, at time.Time) error {
	if !basemodel.ValidID(id) {
		return ErrNotFound
	}
	return r.update(ctx, "id", id, map[string]interface{}{"tracking_number": tracking, "updated_at": at})
}

func (r *orderRepository) ExistingOrderIDs(ctx context.Context, orderIDs []string) (map[string]bool, error) {
	found := make(map[string]bool, len(orderIDs))
	if len(orderIDs) == 0 {
		return found, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("order_id IN ?", orderIDs).Pluck("order_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}
