package common

import (
	"github.com/jjhbk/Devrang/internal/domain/common/handler"
	"github.com/jjhbk/Devrang/internal/pkg/middleware"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
	"github.com/jjhbk/Devrang/internal/pkg/uploader"
)

// CommonModule serves shared endpoints such as image uploads
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	h := handler.NewUploadHandler(uploader.GlobalUploader)
	ctx.Router.POST("/admin/uploads",
		middleware.AuthMiddleware(ctx.Config),
		middleware.AdminMiddleware(),
		h.UploadImages)
	return nil
}
