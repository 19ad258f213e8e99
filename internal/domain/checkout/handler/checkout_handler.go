package handler

import (
	"errors"
	"net/http"

	"github.com/jjhbk/Devrang/internal/domain/checkout/model"
	"github.com/jjhbk/Devrang/internal/domain/checkout/service"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(service service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

func (h *CheckoutHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCheckout):
		response.Error(c, http.StatusBadRequest, response.ErrCheckoutInvalid, err.Error())
	case errors.Is(err, service.ErrInvalidSignature):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidSignature, "invalid-signature")
	case errors.Is(err, service.ErrGateway):
		response.Error(c, http.StatusBadGateway, response.ErrGateway, "Payment service unavailable, please retry")
	default:
		logger.Log.Error("checkout request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// CreateOrder
// @Summary Start a checkout (self payment or payment link)
// @Tags Checkout
// @Accept json
// @Produce json
// @Param body body model.CreateOrderRequest true "cart snapshot and recipient"
// @Success 200 {object} response.Response{data=model.CreateOrderResponse}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /razorpay/order [post]
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	op, ok := identity.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return
	}
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.CreateOrder(c.Request.Context(), op, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// Verify
// @Summary Verify a completed self payment
// @Tags Checkout
// @Accept json
// @Produce json
// @Param body body model.VerifyRequest true "completion triple"
// @Success 200 {object} response.Response{data=model.VerifyResponse}
// @Failure 400 {object} response.Response
// @Router /razorpay/verify [post]
func (h *CheckoutHandler) Verify(c *gin.Context) {
	op, ok := identity.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return
	}
	var req model.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.Verify(c.Request.Context(), op, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}
