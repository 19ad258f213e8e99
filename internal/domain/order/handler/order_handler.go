package handler

import (
	"errors"
	"net/http"

	"github.com/jjhbk/Devrang/internal/domain/order/model"
	"github.com/jjhbk/Devrang/internal/domain/order/service"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/response"
	"github.com/jjhbk/Devrang/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type listQuery struct {
	utils.Pagination
	Status string `form:"status"`
}

type StatusRequest struct {
	Status model.Status `json:"status" binding:"required"`
}

type TrackingRequest struct {
	// pointer so an explicit "" clears while a missing field is rejected
	TrackingNumber *string `json:"trackingNumber" binding:"required"`
}

func (h *OrderHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
	case errors.Is(err, service.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidTransition, err.Error())
	default:
		logger.Log.Error("order request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// ListMyOrders
// @Summary List orders booked by the caller
// @Tags Orders
// @Produce json
// @Param status query string false "status filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	op, ok := identity.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.ListMine(c.Request.Context(), op, model.Status(q.Status), q.Pagination)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetOrder
// @Summary Get an order
// @Tags Orders
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	op, ok := identity.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return
	}
	o, err := h.service.Get(c.Request.Context(), op, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, o)
}

// ListOrders
// @Summary List all orders (admin)
// @Tags Admin
// @Produce json
// @Param status query string false "status filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.ListAll(c.Request.Context(), model.OrderFilter{Status: model.Status(q.Status)}, q.Pagination)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateStatus
// @Summary Set an order's fulfilment status (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param body body StatusRequest true "Processing, Shipped, Delivered or Paid"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, o)
}

// UpdateTracking
// @Summary Set or clear an order's tracking number (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param body body TrackingRequest true "tracking number"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /admin/orders/{id}/tracking [put]
func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	var req TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	o, err := h.service.UpdateTracking(c.Request.Context(), c.Param("id"), *req.TrackingNumber)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, o)
}
