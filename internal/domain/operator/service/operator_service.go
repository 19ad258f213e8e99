package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/operator/model"
	"github.com/jjhbk/Devrang/internal/domain/operator/repository"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/internal/pkg/loginguard"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/utils"

	"go.uber.org/zap"
)

const minPasswordLen = 8

var (
	ErrAuthFailed       = errors.New("invalid email or password")
	ErrTooManyAttempts  = errors.New("too many failed login attempts")
	ErrOperatorExists   = errors.New("operator already exists")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrInvalidOperator  = errors.New("invalid operator")
)

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Operator  *model.Operator `json:"operator"`
	Admin     bool            `json:"admin"`
}

type CreateInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type OperatorService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, op identity.Operator) (*model.Operator, error)
	Create(ctx context.Context, in CreateInput) (*model.Operator, error)
}

type operatorService struct {
	repo    repository.OperatorRepository
	guard   loginguard.Guard
	isAdmin func(email string) bool
}

func NewOperatorService(repo repository.OperatorRepository, guard loginguard.Guard, isAdmin func(email string) bool) OperatorService {
	return &operatorService{repo: repo, guard: guard, isAdmin: isAdmin}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *operatorService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	allowed, err := s.guard.Allowed(ctx, email)
	if err != nil {
		// a broken limiter must not lock everyone out
		logger.Log.Warn("login guard unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, ErrTooManyAttempts
	}

	op, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if op == nil || !op.CheckPassword(password) {
		if ferr := s.guard.Fail(ctx, email); ferr != nil {
			logger.Log.Warn("login guard unavailable", zap.Error(ferr))
		}
		return nil, ErrAuthFailed
	}
	_ = s.guard.Reset(ctx, email)

	token, expireAt, err := utils.GenerateToken(utils.Claims{
		OperatorID: op.ID,
		Email:      op.Email,
		Name:       op.Name,
		Phone:      op.Phone,
		Address:    op.Address,
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("operator signed in", zap.String("operator", op.Email))
	return &LoginResult{Token: token, ExpiresAt: *expireAt, Operator: op, Admin: s.isAdmin(op.Email)}, nil
}

func (s *operatorService) Me(ctx context.Context, op identity.Operator) (*model.Operator, error) {
	o, err := s.repo.GetByID(ctx, op.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOperatorNotFound
	}
	return o, err
}

func (s *operatorService) Create(ctx context.Context, in CreateInput) (*model.Operator, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidOperator)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidOperator)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidOperator, minPasswordLen)
	}

	op := &model.Operator{
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Phone:   strings.TrimSpace(in.Phone),
		Address: in.Address,
	}
	if err := op.SetPassword(in.Password); err != nil {
		return nil, err
	}
	op.EnsureID()

	if err := s.repo.Create(ctx, op); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrOperatorExists
		}
		return nil, err
	}
	return op, nil
}
