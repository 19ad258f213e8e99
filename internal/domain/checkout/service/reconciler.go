package service

import (
	"context"
	"errors"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/checkout/gateway"
	order "github.com/jjhbk/Devrang/internal/domain/order/model"
	"github.com/jjhbk/Devrang/internal/domain/order/repository"
	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/pkg/cache"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/metrics"

	"go.uber.org/zap"
)

const reconcileLockKey = "lock:checkout:reconcile"

// Reconciler finds self-booking gateway orders that were created but never
// stored locally and records them as orphaned so the payment can be traced.
// Other orders on the merchant account are not ours to reconcile.
type Reconciler struct {
	repo     repository.OrderRepository
	gateway  gateway.Gateway
	lock     cache.CacheService
	metrics  *metrics.MetricsCollector
	interval time.Duration
	lookback time.Duration
	grace    time.Duration
	pageSize int
	now      func() time.Time
}

func NewReconciler(
	repo repository.OrderRepository,
	gw gateway.Gateway,
	lock cache.CacheService,
	m *metrics.MetricsCollector,
	cfg config.ReconcileConfig,
) *Reconciler {
	return &Reconciler{
		repo:     repo,
		gateway:  gw,
		lock:     lock,
		metrics:  m,
		interval: cfg.Interval,
		lookback: cfg.Lookback,
		grace:    cfg.Grace,
		pageSize: 100,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *Reconciler) Name() string {
	return "checkout-reconciler"
}

func (r *Reconciler) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("reconciler stopping")
			return nil
		case <-t.C:
			n, err := r.Sweep(ctx)
			if err != nil {
				logger.Log.Error("reconcile sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Warn("reconcile recorded orphaned gateway orders", zap.Int("count", n))
			}
		}
	}
}

// Sweep runs one pass and returns how many orphans it recorded. It does
// nothing when another instance holds the lock.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	if r.lock != nil {
		ok, err := r.lock.TryLock(ctx, reconcileLockKey, r.interval)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
	}

	now := r.now()
	from, to := now.Add(-r.lookback), now.Add(-r.grace)
	if !to.After(from) {
		return 0, nil
	}

	recorded := 0
	for skip := 0; ; skip += r.pageSize {
		page, err := r.gateway.ListOrders(ctx, from, to, r.pageSize, skip)
		if err != nil {
			r.metrics.RecordGatewayError("list_orders")
			return recorded, err
		}
		n, err := r.recordMissing(ctx, page)
		recorded += n
		if err != nil {
			return recorded, err
		}
		if len(page) < r.pageSize {
			break
		}
	}

	r.metrics.RecordOrphans(recorded)
	return recorded, nil
}

func (r *Reconciler) recordMissing(ctx context.Context, page []gateway.Order) (int, error) {
	ours := make([]gateway.Order, 0, len(page))
	ids := make([]string, 0, len(page))
	for _, o := range page {
		if o.SelfBooking() {
			ours = append(ours, o)
			ids = append(ids, o.ID)
		}
	}
	if len(ours) == 0 {
		return 0, nil
	}
	known, err := r.repo.ExistingOrderIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, g := range ours {
		if known[g.ID] {
			continue
		}
		o := &order.Order{
			OrderID:  g.ID,
			Items:    order.Items{},
			Amount:   g.Major(),
			Currency: g.Currency,
			Receipt:  g.Receipt,
			Status:   order.StatusOrphaned,
		}
		o.CreatedAt = g.CreatedAt
		o.EnsureID()

		err := r.repo.Create(ctx, o)
		if errors.Is(err, repository.ErrDuplicate) {
			// stored by a verify that raced this sweep
			continue
		}
		if err != nil {
			return recorded, err
		}
		recorded++
		logger.Log.Warn("orphaned gateway order recorded",
			zap.String("order_id", g.ID),
			zap.String("receipt", g.Receipt),
			zap.Int64("amount_paise", g.Amount))
	}
	return recorded, nil
}
