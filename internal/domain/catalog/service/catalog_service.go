package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jjhbk/Devrang/internal/domain/catalog/model"
	"github.com/jjhbk/Devrang/internal/domain/catalog/repository"
	"github.com/jjhbk/Devrang/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// ProductInput is the admin-editable part of a Product
type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Use         string          `json:"use"`
	Size        string          `json:"size"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	return nil
}

func (in ProductInput) apply(p *model.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Type = in.Type
	p.Category = in.Category
	p.Brand = in.Brand
	p.Use = in.Use
	p.Size = in.Size
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.ImageURL = in.ImageURL
}

type CatalogService interface {
	List(ctx context.Context, filter model.ProductFilter, page utils.Pagination) (*utils.PageResult, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, id string, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	repo repository.ProductRepository
}

func NewCatalogService(repo repository.ProductRepository) CatalogService {
	return &catalogService{repo: repo}
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *catalogService) List(ctx context.Context, filter model.ProductFilter, page utils.Pagination) (*utils.PageResult, error) {
	offset, limit := page.GetPageOffset()
	products, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	return utils.NewPageResult(products, total, page), nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *catalogService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &model.Product{}
	in.apply(p)
	p.EnsureID()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	in.apply(p)
	p.Touch()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	return mapErr(s.repo.Delete(ctx, id))
}
