package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// ProductService is the catalog operations surface used by the handler
type ProductService interface {
	Create(ctx context.Context, req appcatalog.CreateProductRequest) (*appcatalog.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[appcatalog.ProductResponse], error)
	Update(ctx context.Context, id uuid.UUID, req appcatalog.UpdateProductRequest) (*appcatalog.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartService reconciles carts against the catalog
type CartService interface {
	Reconcile(ctx context.Context, items []appcatalog.CartItem) (*appcatalog.ReconcileResult, error)
}

// ProductHandler serves the product catalog and cart endpoints
type ProductHandler struct {
	BaseHandler
	products ProductService
	carts    CartService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductService, carts CartService) *ProductHandler {
	return &ProductHandler{products: products, carts: carts}
}

// RegisterRoutes registers catalog routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
	rg.POST("/cart/reconcile", h.ReconcileCart)
}

// Create creates a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List returns a page of products
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.products.List(c.Request.Context(), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update applies a partial update to a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReconcileCart validates a cart against the current catalog
func (h *ProductHandler) ReconcileCart(c *gin.Context) {
	var req struct {
		Items []appcatalog.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	result, err := h.carts.Reconcile(c.Request.Context(), req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// parseID binds and parses the :id path parameter
func (h *BaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid id parameter")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}
