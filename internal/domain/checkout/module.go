package checkout

import (
	"github.com/jjhbk/Devrang/internal/domain/checkout/gateway"
	"github.com/jjhbk/Devrang/internal/domain/checkout/handler"
	"github.com/jjhbk/Devrang/internal/domain/checkout/service"
	"github.com/jjhbk/Devrang/internal/domain/order"
	"github.com/jjhbk/Devrang/internal/pkg/middleware"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
	"github.com/jjhbk/Devrang/pkg/logger"
)

// CheckoutModule depends on the order store, so it starts after it
type CheckoutModule struct{}

func init() {
	registry.Register(&CheckoutModule{})
}

func (m *CheckoutModule) Name() string {
	return "checkout"
}

func (m *CheckoutModule) Priority() int {
	return 20
}

func (m *CheckoutModule) Init(ctx *registry.ModuleContext) error {
	cfg := ctx.Config
	if cfg.Razorpay.KeyID == "" || cfg.Razorpay.KeySecret == "" {
		logger.Log.Warn("razorpay credentials missing, checkout calls will fail")
	}

	repo := order.NewRepository(ctx)
	gw := gateway.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	var notifier service.Notifier
	if ctx.Notifier != nil {
		notifier = ctx.Notifier
	}

	svc := service.NewCheckoutService(repo, gw, notifier, ctx.Metrics, cfg.Razorpay, cfg.App.SiteURL)
	h := handler.NewCheckoutHandler(svc)

	g := ctx.Router.Group("/razorpay", middleware.AuthMiddleware(cfg))
	{
		g.POST("/order", h.CreateOrder)
		g.POST("/verify", h.Verify)
	}

	if cfg.Reconcile.Enabled {
		ctx.Jobs = append(ctx.Jobs, service.NewReconciler(repo, gw, ctx.Cache, ctx.Metrics, cfg.Reconcile))
	}
	return nil
}
