package customer

import (
	"github.com/jjhbk/Devrang/internal/domain/customer/handler"
	"github.com/jjhbk/Devrang/internal/domain/customer/repository"
	"github.com/jjhbk/Devrang/internal/domain/customer/service"
	"github.com/jjhbk/Devrang/internal/pkg/middleware"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
)

type CustomerModule struct{}

func init() {
	registry.Register(&CustomerModule{})
}

func (m *CustomerModule) Name() string {
	return "customer"
}

func (m *CustomerModule) Priority() int {
	return 10
}

func (m *CustomerModule) Init(ctx *registry.ModuleContext) error {
	var repo repository.CustomerRepository
	if ctx.Mongo != nil {
		repo = repository.NewMongoCustomerRepository(ctx.Mongo)
	} else {
		repo = repository.NewCustomerRepository(ctx.DB)
	}
	h := handler.NewCustomerHandler(service.NewCustomerService(repo))

	g := ctx.Router.Group("/customers", middleware.AuthMiddleware(ctx.Config))
	{
		g.GET("", h.ListCustomers)
		g.POST("", h.CreateCustomer)
		g.GET("/:id", h.GetCustomer)
		g.PUT("/:id", h.UpdateCustomer)
		g.DELETE("/:id", h.DeleteCustomer)
	}
	return nil
}
