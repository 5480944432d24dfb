package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SplendidSupplies/shop_api/internal/service"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// ProductHandler exposes catalog reads and product CRUD over HTTP.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles GET /api/products. Public; fail-soft by contract, so
// it never returns a storage error.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	catalog := h.productService.List(c.Request.Context())
	utils.Success(c, 200, "Products retrieved", catalog)
}

// GetProduct handles GET /api/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /api/products (admin).
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err, "Failed to create product")
		return
	}
	utils.Success(c, 201, "Product created successfully", product)
}

// UpdateProduct handles PUT /api/products/:id (admin).
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "Failed to update product")
		return
	}
	utils.Success(c, 200, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /api/products/:id (admin). Returns the
// removed record for confirmation.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	product, err := h.productService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted successfully", product)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrValidation):
		utils.Error(c, 400, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, utils.ErrPersistence):
		utils.Error(c, 500, "PERSISTENCE_ERROR", fallback)
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", fallback)
	}
}
