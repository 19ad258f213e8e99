package service

import (
	"context"
	"testing"

	"github.com/jjhbk/Devrang/internal/domain/customer/model"
	"github.com/jjhbk/Devrang/internal/domain/customer/repository"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, owner, id string) (*model.Customer, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, owner, query string, offset, limit int) ([]model.Customer, int64, error) {
	args := m.Called(ctx, owner, query, offset, limit)
	return args.Get(0).([]model.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, owner, id string) error {
	return m.Called(ctx, owner, id).Error(0)
}

var astro = identity.Operator{ID: "op-1", Email: "astro@gem.com", Name: "Astro"}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()

	t.Run("Create stamps owner", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(c *model.Customer) bool {
			return c.OperatorEmail == "astro@gem.com" && c.Phone == "9876543210"
		})).Return(nil)

		c, err := svc.Create(ctx, astro, CustomerInput{Name: "Aarav Sharma", Phone: " 9876543210 ", DOB: "1985-05-20", Rating: 5})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Create validation", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		cases := []CustomerInput{
			{Name: "Aarav"},
			{Phone: "1"},
			{Name: "Aarav", Phone: "1", DOB: "20-05-1985"},
			{Name: "Aarav", Phone: "1", Rating: 6},
		}
		for _, in := range cases {
			_, err := svc.Create(ctx, astro, in)
			assert.ErrorIs(t, err, ErrInvalidCustomer)
		}
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Get other operator's customer is not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("GetByID", ctx, "astro@gem.com", "c-2").Return(nil, repository.ErrNotFound)

		_, err := svc.Get(ctx, astro, "c-2")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("Search passes trimmed query", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("List", ctx, "astro@gem.com", "priya", 0, 20).Return([]model.Customer{{Name: "Priya Patel"}}, int64(1), nil)

		res, err := svc.List(ctx, astro, "  priya ", utils.Pagination{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
	})

	t.Run("Update keeps owner", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		existing := &model.Customer{OperatorEmail: "astro@gem.com", Name: "Rohan", Phone: "7654321098"}
		existing.ID = "c-3"
		repo.On("GetByID", ctx, "astro@gem.com", "c-3").Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		c, err := svc.Update(ctx, astro, "c-3", CustomerInput{Name: "Rohan Mehta", Phone: "7654321098", Gotra: "Kashyapa"})
		require.NoError(t, err)
		assert.Equal(t, "Rohan Mehta", c.Name)
		assert.Equal(t, "astro@gem.com", c.OperatorEmail)
		assert.False(t, c.UpdatedAt.IsZero())
	})

	t.Run("Delete missing", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("Delete", ctx, "astro@gem.com", "c-9").Return(repository.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, astro, "c-9"), ErrCustomerNotFound)
	})
}
