package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/operator/model"
	"github.com/jjhbk/Devrang/internal/domain/operator/service"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/response"
	"github.com/jjhbk/Devrang/pkg/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOperatorService struct {
	mock.Mock
}

func (m *MockOperatorService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockOperatorService) Me(ctx context.Context, op identity.Operator) (*model.Operator, error) {
	args := m.Called(op.ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Operator), args.Error(1)
}

func (m *MockOperatorService) Create(ctx context.Context, in service.CreateInput) (*model.Operator, error) {
	args := m.Called(in.Email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Operator), args.Error(1)
}

func router(svc service.OperatorService, op *identity.Operator) *gin.Engine {
	r := testkit.Router(op)
	h := NewOperatorHandler(svc)
	r.POST("/auth/login", h.Login)
	r.GET("/me", h.Me)
	r.POST("/admin/operators", h.CreateOperator)
	return r
}

func TestOperatorHandler(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		svc := new(MockOperatorService)
		svc.On("Login", "astro@gem.com", "pw").Return(&service.LoginResult{
			Token: "jwt", ExpiresAt: time.Now().Add(time.Hour), Operator: &model.Operator{Email: "astro@gem.com", PasswordHash: "secret-hash"},
		}, nil)

		w := testkit.Do(router(svc, nil), http.MethodPost, "/auth/login", map[string]string{"email": "astro@gem.com", "password": "pw"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "secret-hash")

		var res service.LoginResult
		testkit.Decode(t, w, &res)
		assert.Equal(t, "jwt", res.Token)
	})

	t.Run("Login failure", func(t *testing.T) {
		svc := new(MockOperatorService)
		svc.On("Login", "astro@gem.com", "bad").Return(nil, service.ErrAuthFailed)

		w := testkit.Do(router(svc, nil), http.MethodPost, "/auth/login", map[string]string{"email": "astro@gem.com", "password": "bad"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.ErrAuthFailed, testkit.Decode(t, w, nil).Code)
	})

	t.Run("Login throttled", func(t *testing.T) {
		svc := new(MockOperatorService)
		svc.On("Login", "astro@gem.com", "bad").Return(nil, service.ErrTooManyAttempts)

		w := testkit.Do(router(svc, nil), http.MethodPost, "/auth/login", map[string]string{"email": "astro@gem.com", "password": "bad"})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("Me", func(t *testing.T) {
		svc := new(MockOperatorService)
		svc.On("Me", "op-1").Return(&model.Operator{Name: "Astro"}, nil)

		w := testkit.Do(router(svc, &identity.Operator{ID: "op-1"}), http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Create conflict", func(t *testing.T) {
		svc := new(MockOperatorService)
		svc.On("Create", "astro@gem.com").Return(nil, service.ErrOperatorExists)

		w := testkit.Do(router(svc, &identity.Operator{ID: "op-2", Admin: true}), http.MethodPost, "/admin/operators",
			map[string]string{"name": "Astro", "email": "astro@gem.com", "password": "long-enough"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
