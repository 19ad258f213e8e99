package catalog

import (
	"context"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/catalog/handler"
	"github.com/jjhbk/Devrang/internal/domain/catalog/model"
	"github.com/jjhbk/Devrang/internal/domain/catalog/repository"
	"github.com/jjhbk/Devrang/internal/domain/catalog/service"
	"github.com/jjhbk/Devrang/internal/pkg/middleware"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
	"github.com/jjhbk/Devrang/pkg/cache"
	"github.com/jjhbk/Devrang/pkg/utils"
)

type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 10
}

// NewRepository picks the store configured for this process
func NewRepository(ctx *registry.ModuleContext) repository.ProductRepository {
	if ctx.Mongo != nil {
		return repository.NewMongoProductRepository(ctx.Mongo)
	}
	return repository.NewProductRepository(ctx.DB)
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	var svc service.CatalogService = service.NewCatalogService(NewRepository(ctx))
	if ctx.Cache != nil {
		svc = service.NewCachedCatalogService(svc, ctx.Cache, ctx.Metrics)
		ctx.Jobs = append(ctx.Jobs, cache.NewWarmer("catalog-warmup", service.ProductListCacheTTL-time.Minute,
			func(c context.Context) error {
				_, err := svc.List(c, model.ProductFilter{}, utils.Pagination{Page: 1, Limit: 20})
				return err
			},
		))
	}
	h := handler.NewProductHandler(svc)

	setupRoutes(ctx, h)
	return nil
}

func setupRoutes(ctx *registry.ModuleContext, h *handler.ProductHandler) {
	r := ctx.Router
	auth := middleware.AuthMiddleware(ctx.Config)

	products := r.Group("/products", auth)
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
	}

	admin := r.Group("/admin/products", auth, middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateProduct)
		admin.PUT("/:id", h.UpdateProduct)
		admin.DELETE("/:id", h.DeleteProduct)
	}
}
