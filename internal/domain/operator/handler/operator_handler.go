package handler

import (
	"errors"
	"net/http"

	"github.com/jjhbk/Devrang/internal/domain/operator/service"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OperatorHandler struct {
	service service.OperatorService
}

func NewOperatorHandler(service service.OperatorService) *OperatorHandler {
	return &OperatorHandler{service: service}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *OperatorHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthFailed):
		response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid email or password")
	case errors.Is(err, service.ErrTooManyAttempts):
		response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many failed attempts, try again later")
	case errors.Is(err, service.ErrOperatorExists):
		response.Error(c, http.StatusConflict, response.ErrOperatorExists, "Operator already exists")
	case errors.Is(err, service.ErrOperatorNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOperatorNotFound, "Operator not found")
	case errors.Is(err, service.ErrInvalidOperator):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		logger.Log.Error("operator request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// Login
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginInput true "credentials"
// @Success 200 {object} response.Response{data=service.LoginResult}
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *OperatorHandler) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// Me
// @Summary Current operator profile
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response{data=model.Operator}
// @Router /me [get]
func (h *OperatorHandler) Me(c *gin.Context) {
	op, ok := identity.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return
	}
	o, err := h.service.Me(c.Request.Context(), op)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, o)
}

// CreateOperator
// @Summary Create an operator account (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body service.CreateInput true "operator"
// @Success 201 {object} response.Response{data=model.Operator}
// @Router /admin/operators [post]
func (h *OperatorHandler) CreateOperator(c *gin.Context) {
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	o, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, o)
}
