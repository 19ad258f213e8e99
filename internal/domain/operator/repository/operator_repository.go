package repository

import (
	"context"
	"errors"

	"github.com/jjhbk/Devrang/internal/domain/operator/model"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("operator not found")
	ErrDuplicate = errors.New("operator email already registered")
)

type OperatorRepository interface {
	Create(ctx context.Context, o *model.Operator) error
	GetByID(ctx context.Context, id string) (*model.Operator, error)
	GetByEmail(ctx context.Context, email string) (*model.Operator, error)
}

type operatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(ctx context.Context, o *model.Operator) error {
	err := r.db.WithContext(ctx).Create(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *operatorRepository) first(ctx context.Context, column, value string) (*model.Operator, error) {
	var o model.Operator
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*model.Operator, error) {
	return r.first(ctx, "id", id)
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*model.Operator, error) {
	return r.first(ctx, "email", email)
}
