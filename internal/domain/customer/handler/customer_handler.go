package handler

import (
	"errors"
	"net/http"

	"github.com/jjhbk/Devrang/internal/domain/customer/service"
	"github.com/jjhbk/Devrang/internal/pkg/identity"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/response"
	"github.com/jjhbk/Devrang/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(service service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func (h *CustomerHandler) operator(c *gin.Context) (identity.Operator, bool) {
	op, ok := identity.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
		return op, false
	}
	return op, true
}

func (h *CustomerHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCustomerNotFound, "Customer not found")
	case errors.Is(err, service.ErrInvalidCustomer):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		logger.Log.Error("customer request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// ListCustomers
// @Summary List the caller's customers
// @Tags Customers
// @Produce json
// @Param q query string false "name or phone contains"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	op, ok := h.operator(c)
	if !ok {
		return
	}
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.List(c.Request.Context(), op, c.Query("q"), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetCustomer
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Param id path string true "customer id"
// @Success 200 {object} response.Response{data=model.Customer}
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	op, ok := h.operator(c)
	if !ok {
		return
	}
	cust, err := h.service.Get(c.Request.Context(), op, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, cust)
}

// CreateCustomer
// @Summary Create a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param body body service.CustomerInput true "customer"
// @Success 201 {object} response.Response{data=model.Customer}
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	op, ok := h.operator(c)
	if !ok {
		return
	}
	var in service.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cust, err := h.service.Create(c.Request.Context(), op, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, cust)
}

// UpdateCustomer
// @Summary Update a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "customer id"
// @Param body body service.CustomerInput true "customer"
// @Success 200 {object} response.Response{data=model.Customer}
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	op, ok := h.operator(c)
	if !ok {
		return
	}
	var in service.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cust, err := h.service.Update(c.Request.Context(), op, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, cust)
}

// DeleteCustomer
// @Summary Delete a customer
// @Tags Customers
// @Produce json
// @Param id path string true "customer id"
// @Success 200 {object} response.Response{data=bool}
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	op, ok := h.operator(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), op, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, true)
}
