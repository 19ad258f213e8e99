package uploader

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/jjhbk/Devrang/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// allowed product image extensions
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// ObjectPutter is the slice of *oss.Bucket the uploader uses
type ObjectPutter interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
}

type AliyunOSSUploader struct {
	bucket ObjectPutter
	config config.OSSConfig
	now    func() time.Time
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	if cfg.Endpoint == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("oss config is missing")
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return NewWithBucket(bucket, cfg), nil
}

func NewWithBucket(bucket ObjectPutter, cfg config.OSSConfig) *AliyunOSSUploader {
	return &AliyunOSSUploader{bucket: bucket, config: cfg, now: time.Now}
}

// UploadFile stores a product image under products/YYYYMMDD/<uuid>.<ext> and returns its public URL
func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("%w %q", ErrUnsupportedType, ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := fmt.Sprintf("products/%s/%s%s", u.now().Format("20060102"), uuid.New().String(), ext)
	if err := u.bucket.PutObject(key, src, oss.ContentType(contentType(ext))); err != nil {
		return "", err
	}

	// bucket is public-read behind the storefront CDN
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key), nil
}

func contentType(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// GlobalUploader is nil when OSS is not configured
var GlobalUploader Uploader

func InitUploader(cfg config.OSSConfig) error {
	uploader, err := NewAliyunOSSUploader(cfg)
	if err != nil {
		return err
	}
	GlobalUploader = uploader
	return nil
}
