package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/customer/model"
	"github.com/jjhbk/Devrang/internal/domain/customer/repository"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/utils"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidCustomer  = errors.New("invalid customer")
)

// CustomerInput is the editable part of a Customer
type CustomerInput struct {
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email"`
	ShippingAddress string `json:"shippingAddress"`
	DOB             string `json:"dob"`
	Gotra           string `json:"gotra"`
	Rating          int    `json:"rating"`
	Comments        string `json:"comments"`
}

func (in CustomerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidCustomer)
	}
	if in.DOB != "" {
		if _, err := time.Parse("2006-01-02", in.DOB); err != nil {
			return fmt.Errorf("%w: dob must be YYYY-MM-DD", ErrInvalidCustomer)
		}
	}
	if in.Rating < 0 || in.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidCustomer)
	}
	return nil
}

func (in CustomerInput) apply(c *model.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.ShippingAddress = in.ShippingAddress
	c.DOB = in.DOB
	c.Gotra = in.Gotra
	c.Rating = in.Rating
	c.Comments = in.Comments
}

// CustomerService operates on the calling operator's customers only
type CustomerService interface {
	List(ctx context.Context, op identity.Operator, query string, page utils.Pagination) (*utils.PageResult, error)
	Get(ctx context.Context, op identity.Operator, id string) (*model.Customer, error)
	Create(ctx context.Context, op identity.Operator, in CustomerInput) (*model.Customer, error)
	Update(ctx context.Context, op identity.Operator, id string, in CustomerInput) (*model.Customer, error)
	Delete(ctx context.Context, op identity.Operator, id string) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

func (s *customerService) List(ctx context.Context, op identity.Operator, query string, page utils.Pagination) (*utils.PageResult, error) {
	offset, limit := page.GetPageOffset()
	customers, total, err := s.repo.List(ctx, op.Email, strings.TrimSpace(query), offset, limit)
	if err != nil {
		return nil, err
	}
	return utils.NewPageResult(customers, total, page), nil
}

func (s *customerService) Get(ctx context.Context, op identity.Operator, id string) (*model.Customer, error) {
	c, err := s.repo.GetByID(ctx, op.Email, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, op identity.Operator, in CustomerInput) (*model.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &model.Customer{OperatorEmail: op.Email}
	in.apply(c)
	c.EnsureID()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, op identity.Operator, id string, in CustomerInput) (*model.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, op.Email, id)
	if err != nil {
		return nil, mapErr(err)
	}
	in.apply(c)
	c.Touch()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *customerService) Delete(ctx context.Context, op identity.Operator, id string) error {
	return mapErr(s.repo.Delete(ctx, op.Email, id))
}
