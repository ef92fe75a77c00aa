package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/shop/backend/internal/application/ordering"
	appshipping "github.com/shop/backend/internal/application/shipping"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// CheckoutService places and reads orders
type CheckoutService interface {
	Checkout(ctx context.Context, req appordering.CheckoutRequest) (*appordering.OrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appordering.OrderResponse, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[appordering.OrderResponse], error)
}

// OrderShipmentService creates shipments for orders
type OrderShipmentService interface {
	CreateForOrder(ctx context.Context, orderID uuid.UUID) (*appshipping.ShipmentResponse, error)
}

// OrderHandler serves checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	checkout  CheckoutService
	shipments OrderShipmentService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkout CheckoutService, shipments OrderShipmentService) *OrderHandler {
	return &OrderHandler{checkout: checkout, shipments: shipments}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Checkout)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/shipment", h.CreateShipment)
	}
}

// Checkout places a new order
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req appordering.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get returns one order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	order, err := h.checkout.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List returns a page of orders
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.checkout.List(c.Request.Context(), shared.Filter{
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

// CreateShipment creates the shipment for an order
func (h *OrderHandler) CreateShipment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	shipment, err := h.shipments.CreateForOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shipment)
}
