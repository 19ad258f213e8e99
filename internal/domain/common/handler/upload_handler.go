package handler

import (
	"errors"
	"net/http"

	"github.com/jjhbk/Devrang/internal/pkg/uploader"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxFiles          = 10
	uploadConcurrency = 5
)

type UploadHandler struct {
	uploader uploader.Uploader
}

// NewUploadHandler accepts a nil uploader; uploads then fail with 503
func NewUploadHandler(u uploader.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// UploadImages
// @Summary Upload product images to object storage (admin)
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "jpg, png or webp images"
// @Success 200 {object} response.Response{data=[]string} "URLs in upload order"
// @Router /admin/uploads [post]
func (h *UploadHandler) UploadImages(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "Uploads are not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}
	if len(files) > maxFiles {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Too many files")
		return
	}

	urls := make([]string, len(files))
	g, _ := errgroup.WithContext(c.Request.Context())
	g.SetLimit(uploadConcurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := h.uploader.UploadFile(file)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, uploader.ErrUnsupportedType) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		logger.Log.Error("image upload failed", zap.Int("files", len(files)), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Upload failed")
		return
	}

	response.Success(c, urls)
}
