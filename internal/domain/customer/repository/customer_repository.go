package repository

import (
	"context"
	"errors"

	"github.com/jjhbk/Devrang/internal/domain/customer/model"
	basemodel "github.com/jjhbk/Devrang/pkg/model"
	"github.com/jjhbk/Devrang/pkg/utils"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("customer not found")

// CustomerRepository scopes every read and write to the owning operator
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, owner, id string) (*model.Customer, error)
	List(ctx context.Context, owner, query string, offset, limit int) ([]model.Customer, int64, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, owner, id string) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepository) GetByID(ctx context.Context, owner, id string) (*model.Customer, error) {
	if !basemodel.ValidID(id) {
		return nil, ErrNotFound
	}
	var c model.Customer
	err := r.db.WithContext(ctx).Where("id = ? AND operator_email = ?", id, owner).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, owner, query string, offset, limit int) ([]model.Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Customer{}).Where("operator_email = ?", owner)
	if query != "" {
		like := utils.ContainsPattern(query)
		q = q.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []model.Customer
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *customerRepository) Update(ctx context.Context, c *model.Customer) error {
	if !basemodel.ValidID(c.ID) {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ? AND operator_email = ?", c.ID, c.OperatorEmail).
		Updates(map[string]interface{}{
			"name":             c.Name,
			"phone":            c.Phone,
			"email":            c.Email,
			"shipping_address": c.ShippingAddress,
			"dob":              c.DOB,
			"gotra":            c.Gotra,
			"rating":           c.Rating,
			"comments":         c.Comments,
			"updated_at":       c.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, owner, id string) error {
	if !basemodel.ValidID(id) {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ? AND operator_email = ?", id, owner).Delete(&model.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
