package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appshipping "github.com/shop/backend/internal/application/shipping"
	"github.com/shop/backend/internal/domain/shipping"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// ShipmentService quotes and retries shipments
type ShipmentService interface {
	Quote(ctx context.Context, req shipping.QuoteRequest) []shipping.Option
	Retry(ctx context.Context) ([]appshipping.RetryResult, error)
}

// ShipmentHandler serves shipment quote and retry endpoints
type ShipmentHandler struct {
	BaseHandler
	shipments ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipments ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments}
}

// RegisterRoutes registers shipment routes
func (h *ShipmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shipments := rg.Group("/shipments")
	{
		shipments.POST("/quote", h.Quote)
		shipments.POST("/retry", h.Retry)
	}
}

// Quote returns shipping options for a destination. The storefront shows
// "no options" for an empty list, so failures degrade to that instead of
// breaking the checkout page.
func (h *ShipmentHandler) Quote(c *gin.Context) {
	var req struct {
		ZipCode    string `json:"zip_code" binding:"required"`
		Dimensions string `json:"dimensions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	options := h.shipments.Quote(c.Request.Context(), shipping.QuoteRequest{
		ZipCode:    req.ZipCode,
		Dimensions: req.Dimensions,
	})
	h.Success(c, gin.H{"options": options})
}

// Retry attempts shipment creation for paid orders without tracking
func (h *ShipmentHandler) Retry(c *gin.Context) {
	results, err := h.shipments.Retry(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"results": results})
}
