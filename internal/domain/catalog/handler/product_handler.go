package handler

import (
	"errors"
	"net/http"

	"github.com/jjhbk/Devrang/internal/domain/catalog/model"
	"github.com/jjhbk/Devrang/internal/domain/catalog/service"
	"github.com/jjhbk/Devrang/pkg/logger"
	"github.com/jjhbk/Devrang/pkg/response"
	"github.com/jjhbk/Devrang/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(service service.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

type listQuery struct {
	utils.Pagination
	Q        string `form:"q"`
	Category string `form:"category"`
	Brand    string `form:"brand"`
}

func (h *ProductHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
	case errors.Is(err, service.ErrInvalidProduct):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		logger.Log.Error("catalog request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// ListProducts
// @Summary List catalog products
// @Tags Catalog
// @Produce json
// @Param q query string false "name contains"
// @Param category query string false "category"
// @Param brand query string false "brand"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.List(c.Request.Context(), model.ProductFilter{Query: q.Q, Category: q.Category, Brand: q.Brand}, q.Pagination)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetProduct
// @Summary Get a product
// @Tags Catalog
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} response.Response{data=model.Product}
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, p)
}

// CreateProduct
// @Summary Create a product (admin)
// @Tags Catalog
// @Accept json
// @Produce json
// @Param body body service.ProductInput true "product"
// @Success 201 {object} response.Response{data=model.Product}
// @Router /admin/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, p)
}

// UpdateProduct
// @Summary Replace a product's editable fields (admin)
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "product id"
// @Param body body service.ProductInput true "product"
// @Success 200 {object} response.Response{data=model.Product}
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, p)
}

// DeleteProduct
// @Summary Delete a product (admin)
// @Tags Catalog
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} response.Response{data=bool}
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, true)
}
