package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/catalog/model"
	"github.com/jjhbk/Devrang/pkg/cache"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/metrics"
	"github.com/jjhbk/Devrang/pkg/utils"

	"go.uber.org/zap"
)

const (
	ProductCacheKeyPrefix     = "product:"
	ProductListCacheKeyPrefix = "products:list:"
	ProductCacheTTL           = 30 * time.Minute
	ProductListCacheTTL       = 5 * time.Minute
)

// CachedCatalogService reads through the cache and drops it on every mutation
type CachedCatalogService struct {
	next    CatalogService
	cache   cache.CacheService
	metrics *metrics.MetricsCollector
}

func NewCachedCatalogService(next CatalogService, c cache.CacheService, m *metrics.MetricsCollector) CatalogService {
	return &CachedCatalogService{next: next, cache: c, metrics: m}
}

func (s *CachedCatalogService) productKey(id string) string {
	return ProductCacheKeyPrefix + id
}

func (s *CachedCatalogService) listKey(f model.ProductFilter, page utils.Pagination) string {
	offset, limit := page.GetPageOffset()
	return fmt.Sprintf("%s%s|%s|%s|%d|%d", ProductListCacheKeyPrefix, f.Query, f.Category, f.Brand, offset, limit)
}

func (s *CachedCatalogService) record(prefix string, hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(prefix, hit)
	}
}

// cachedPage is PageResult with a concrete list type so it survives JSON
type cachedPage struct {
	List  []model.Product `json:"list"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (s *CachedCatalogService) List(ctx context.Context, filter model.ProductFilter, page utils.Pagination) (*utils.PageResult, error) {
	key := s.listKey(filter, page)

	var cached cachedPage
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.record(ProductListCacheKeyPrefix, true)
		return utils.NewPageResult(cached.List, cached.Total, utils.Pagination{Page: cached.Page, Limit: cached.Limit}), nil
	}
	s.record(ProductListCacheKeyPrefix, false)

	res, err := s.next.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	list, _ := res.List.([]model.Product)
	if err := s.cache.Set(ctx, key, cachedPage{List: list, Total: res.Total, Page: res.Page, Limit: res.Limit}, ProductListCacheTTL); err != nil {
		logger.Log.Warn("cache product list failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

func (s *CachedCatalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	key := s.productKey(id)

	var p model.Product
	if err := s.cache.Get(ctx, key, &p); err == nil {
		s.record(ProductCacheKeyPrefix, true)
		return &p, nil
	}
	s.record(ProductCacheKeyPrefix, false)

	product, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, product, ProductCacheTTL); err != nil {
		logger.Log.Warn("cache product failed", zap.String("id", id), zap.Error(err))
	}
	return product, nil
}

func (s *CachedCatalogService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	p, err := s.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "")
	return p, nil
}

func (s *CachedCatalogService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	p, err := s.next.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *CachedCatalogService) Delete(ctx context.Context, id string) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// invalidate is best effort; list entries expire on their own within ProductListCacheTTL
func (s *CachedCatalogService) invalidate(ctx context.Context, id string) {
	if id != "" {
		if err := s.cache.Delete(ctx, s.productKey(id)); err != nil {
			logger.Log.Warn("invalidate product cache failed", zap.String("id", id), zap.Error(err))
		}
	}
	if err := s.cache.InvalidatePattern(ctx, ProductListCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("invalidate product list cache failed", zap.Error(err))
	}
}
