package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/order/model"
	"github.com/jjhbk/Devrang/internal/domain/order/repository"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// OrderService is the read side for operators and the admin write side
type OrderService interface {
	ListAll(ctx context.Context, filter model.OrderFilter, page utils.Pagination) (*utils.PageResult, error)
	ListMine(ctx context.Context, op identity.Operator, status model.Status, page utils.Pagination) (*utils.PageResult, error)
	Get(ctx context.Context, op identity.Operator, id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Order, error)
	UpdateTracking(ctx context.Context, id, tracking string) (*model.Order, error)
}

type orderService struct {
	repo repository.OrderRepository
	now  func() time.Time
}

func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}

func (s *orderService) list(ctx context.Context, filter model.OrderFilter, page utils.Pagination) (*utils.PageResult, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}
	offset, limit := page.GetPageOffset()
	orders, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	return utils.NewPageResult(orders, total, page), nil
}

func (s *orderService) ListAll(ctx context.Context, filter model.OrderFilter, page utils.Pagination) (*utils.PageResult, error) {
	return s.list(ctx, filter, page)
}

func (s *orderService) ListMine(ctx context.Context, op identity.Operator, status model.Status, page utils.Pagination) (*utils.PageResult, error) {
	return s.list(ctx, model.OrderFilter{Status: status, CreatedBy: op.Email}, page)
}

// Get hides other operators' orders from non-admins
func (s *orderService) Get(ctx context.Context, op identity.Operator, id string) (*model.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	if !op.Admin && !strings.EqualFold(o.CreatedBy, op.Email) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// UpdateStatus writes status unconditionally. Moves outside the
// documented lifecycle are allowed but logged.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Order, error) {
	if !status.IsAdmin() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}

	if !model.CanTransition(o.Status, status) {
		logger.Log.Warn("unusual order status transition",
			zap.String("id", id),
			zap.String("order_id", o.OrderID),
			zap.String("from", string(o.Status)),
			zap.String("to", string(status)),
		)
	}

	at := s.now()
	if err := s.repo.UpdateStatus(ctx, id, status, at); err != nil {
		return nil, mapErr(err)
	}
	o.Status = status
	o.UpdatedAt = at
	return o, nil
}

func (s *orderService) UpdateTracking(ctx context.Context, id, tracking string) (*model.Order, error) {
	at := s.now()
	tracking = strings.TrimSpace(tracking)
	if err := s.repo.UpdateTracking(ctx, id, tracking, at); err != nil {
		return nil, mapErr(err)
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}
