package operator

import (
	"context"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/operator/handler"
	"github.com/jjhbk/Devrang/internal/domain/operator/repository"
	"github.com/jjhbk/Devrang/internal/domain/operator/service"
	"github.com/jjhbk/Devrang/internal/pkg/loginguard"
	"github.com/jjhbk/Devrang/internal/pkg/middleware"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
)

// OperatorModule owns sign-in, so it comes first
type OperatorModule struct{}

func init() {
	registry.Register(&OperatorModule{})
}

func (m *OperatorModule) Name() string {
	return "operator"
}

func (m *OperatorModule) Priority() int {
	return 1
}

// NewRepository picks the backend the server was started with
func NewRepository(ctx *registry.ModuleContext) repository.OperatorRepository {
	if ctx.Mongo != nil {
		return repository.NewMongoOperatorRepository(ctx.Mongo)
	}
	return repository.NewOperatorRepository(ctx.DB)
}

func (m *OperatorModule) Init(ctx *registry.ModuleContext) error {
	if ctx.Mongo != nil {
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsureIndexes(ictx, ctx.Mongo); err != nil {
			return err
		}
	}

	var guard loginguard.Guard
	if ctx.Redis != nil {
		guard = loginguard.NewRedisGuard(ctx.Redis, loginguard.DefaultMaxFailures, loginguard.DefaultWindow)
	} else {
		guard = loginguard.NewMemoryGuard(loginguard.DefaultMaxFailures, loginguard.DefaultWindow)
	}

	svc := service.NewOperatorService(NewRepository(ctx), guard, ctx.Config.IsAdmin)
	h := handler.NewOperatorHandler(svc)

	auth := middleware.AuthMiddleware(ctx.Config)
	ctx.Router.POST("/auth/login", h.Login)
	ctx.Router.GET("/me", auth, h.Me)
	ctx.Router.POST("/admin/operators", auth, middleware.AdminMiddleware(), h.CreateOperator)
	return nil
}
