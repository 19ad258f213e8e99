package service

import (
	"context"
	"testing"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/operator/model"
	"github.com/jjhbk/Devrang/internal/domain/operator/repository"
	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/internal/pkg/loginguard"
	"github.com/jjhbk/Devrang/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOperatorRepository is a mock of OperatorRepository
type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) Create(ctx context.Context, o *model.Operator) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOperatorRepository) GetByID(ctx context.Context, id string) (*model.Operator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Operator), args.Error(1)
}

func (m *MockOperatorRepository) GetByEmail(ctx context.Context, email string) (*model.Operator, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Operator), args.Error(1)
}

func isAdmin(email string) bool { return email == "admin@astrogems.com" }

func astroOperator(t *testing.T) *model.Operator {
	op := &model.Operator{Name: "Astro", Email: "astro@gem.com", Phone: "98", Address: "Jaipur"}
	op.ID = "op-1"
	require.NoError(t, op.SetPassword("correct-horse"))
	return op
}

func TestOperatorService_Login(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 1
	ctx := context.Background()

	t.Run("Issues token carrying the profile", func(t *testing.T) {
		repo := new(MockOperatorRepository)
		svc := NewOperatorService(repo, loginguard.NewMemoryGuard(5, time.Minute), isAdmin)
		repo.On("GetByEmail", ctx, "astro@gem.com").Return(astroOperator(t), nil)

		res, err := svc.Login(ctx, " Astro@Gem.com ", "correct-horse")
		require.NoError(t, err)
		assert.False(t, res.Admin)

		claims, err := utils.ParseToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "op-1", claims.OperatorID)
		assert.Equal(t, "Jaipur", claims.Address)
	})

	t.Run("Wrong password and unknown email look the same", func(t *testing.T) {
		repo := new(MockOperatorRepository)
		svc := NewOperatorService(repo, loginguard.NewMemoryGuard(5, time.Minute), isAdmin)
		repo.On("GetByEmail", ctx, "astro@gem.com").Return(astroOperator(t), nil)
		repo.On("GetByEmail", ctx, "ghost@gem.com").Return(nil, repository.ErrNotFound)

		_, err := svc.Login(ctx, "astro@gem.com", "wrong")
		assert.ErrorIs(t, err, ErrAuthFailed)
		_, err = svc.Login(ctx, "ghost@gem.com", "whatever")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("Locks after repeated failures", func(t *testing.T) {
		repo := new(MockOperatorRepository)
		svc := NewOperatorService(repo, loginguard.NewMemoryGuard(2, time.Minute), isAdmin)
		repo.On("GetByEmail", ctx, "astro@gem.com").Return(astroOperator(t), nil)

		for i := 0; i < 2; i++ {
			_, err := svc.Login(ctx, "astro@gem.com", "wrong")
			assert.ErrorIs(t, err, ErrAuthFailed)
		}
		_, err := svc.Login(ctx, "astro@gem.com", "correct-horse")
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	})
}

func TestOperatorService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Hashes password", func(t *testing.T) {
		repo := new(MockOperatorRepository)
		svc := NewOperatorService(repo, loginguard.NewMemoryGuard(5, time.Minute), isAdmin)
		repo.On("Create", ctx, mock.MatchedBy(func(o *model.Operator) bool {
			return o.Email == "new@gem.com" && o.CheckPassword("long-enough") && o.ID != ""
		})).Return(nil)

		op, err := svc.Create(ctx, CreateInput{Name: "New", Email: "NEW@gem.com", Password: "long-enough"})
		require.NoError(t, err)
		assert.Equal(t, "new@gem.com", op.Email)
		repo.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo := new(MockOperatorRepository)
		svc := NewOperatorService(repo, loginguard.NewMemoryGuard(5, time.Minute), isAdmin)
		repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate)

		_, err := svc.Create(ctx, CreateInput{Name: "Astro", Email: "astro@gem.com", Password: "long-enough"})
		assert.ErrorIs(t, err, ErrOperatorExists)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewOperatorService(new(MockOperatorRepository), loginguard.NewMemoryGuard(5, time.Minute), isAdmin)
		for _, in := range []CreateInput{
			{Name: "A", Email: "not-an-email", Password: "long-enough"},
			{Name: " ", Email: "a@b.c", Password: "long-enough"},
			{Name: "A", Email: "a@b.c", Password: "short"},
		} {
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidOperator)
		}
	})
}

func TestOperatorService_Me(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOperatorRepository)
	svc := NewOperatorService(repo, loginguard.NewMemoryGuard(5, time.Minute), isAdmin)
	repo.On("GetByID", ctx, "gone").Return(nil, repository.ErrNotFound)

	_, err := svc.Me(ctx, identity.Operator{ID: "gone"})
	assert.ErrorIs(t, err, ErrOperatorNotFound)
}
