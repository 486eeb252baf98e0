package handler

import (
	"strconv"

	catalogapp "github.com/bilemo/api/internal/application/catalog"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

const productNotFound = "Le produit n'existe pas"

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	pagination     config.PaginationConfig
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, pagination config.PaginationConfig) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		pagination:     pagination,
	}
}

// List returns one page of the catalog
func (h *ProductHandler) List(c *gin.Context) {
	page, err := parsePageRequest(c, h.pagination)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.productService.List(c.Request.Context(), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, result)
}

// GetByID returns a product with its configurations and images
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, productNotFound)
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product with its nested configurations
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "/api/products/"+strconv.FormatInt(product.ID, 10), product)
}

// Update patches product fields, adds configurations and edits or removes existing ones
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, productNotFound)
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.productService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a product and everything it owns
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, productNotFound)
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
