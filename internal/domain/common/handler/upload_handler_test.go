package handler

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jjhbk/Devrang/internal/pkg/uploader"
	"github.com/jjhbk/Devrang/pkg/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	err error
}

func (f *fakeUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if filepath.Ext(file.Filename) == ".txt" {
		return "", fmt.Errorf("%w %q", uploader.ErrUnsupportedType, ".txt")
	}
	return "https://cdn/" + file.Filename, nil
}

func multipartRequest(t *testing.T, names ...string) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("image-bytes"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(h *UploadHandler, req *http.Request) *httptest.ResponseRecorder {
	r := testkit.Router(nil)
	r.POST("/admin/uploads", h.UploadImages)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Keeps upload order", func(t *testing.T) {
		w := serve(NewUploadHandler(&fakeUploader{}), multipartRequest(t, "a.png", "b.jpg", "c.webp"))
		assert.Equal(t, http.StatusOK, w.Code)

		var urls []string
		testkit.Decode(t, w, &urls)
		assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/b.jpg", "https://cdn/c.webp"}, urls)
	})

	t.Run("Rejects unsupported type", func(t *testing.T) {
		w := serve(NewUploadHandler(&fakeUploader{}), multipartRequest(t, "a.png", "notes.txt"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("No files", func(t *testing.T) {
		w := serve(NewUploadHandler(&fakeUploader{}), multipartRequest(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Storage failure", func(t *testing.T) {
		w := serve(NewUploadHandler(&fakeUploader{err: errors.New("oss down")}), multipartRequest(t, "a.png"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Upload failed", testkit.Decode(t, w, nil).Message)
	})

	t.Run("Not configured", func(t *testing.T) {
		w := serve(NewUploadHandler(nil), multipartRequest(t, "a.png"))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
