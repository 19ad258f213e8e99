package order

import (
	"context"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/order/handler"
	"github.com/jjhbk/Devrang/internal/domain/order/repository"
	"github.com/jjhbk/Devrang/internal/domain/order/service"
	"github.com/jjhbk/Devrang/internal/pkg/middleware"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
)

type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 10
}

// NewRepository picks the backend the server was started with
func NewRepository(ctx *registry.ModuleContext) repository.OrderRepository {
	if ctx.Mongo != nil {
		return repository.NewMongoOrderRepository(ctx.Mongo)
	}
	return repository.NewOrderRepository(ctx.DB)
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Mongo != nil {
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsureIndexes(ictx, ctx.Mongo); err != nil {
			return err
		}
	}

	h := handler.NewOrderHandler(service.NewOrderService(NewRepository(ctx)))

	auth := middleware.AuthMiddleware(ctx.Config)
	g := ctx.Router.Group("/orders", auth)
	{
		g.GET("", h.ListMyOrders)
		g.GET("/:id", h.GetOrder)
	}

	admin := ctx.Router.Group("/admin/orders", auth, middleware.AdminMiddleware())
	{
		admin.GET("", h.ListOrders)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.PUT("/:id/tracking", h.UpdateTracking)
	}
	return nil
}
