package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/shop/backend/internal/application/integration"
	appordering "github.com/shop/backend/internal/application/ordering"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// PaymentWebhookProcessor applies payment notifications
type PaymentWebhookProcessor interface {
	Process(ctx context.Context, notification appordering.PaymentNotification) error
}

// MarketplaceWebhookProcessor applies marketplace notifications
type MarketplaceWebhookProcessor interface {
	Process(ctx context.Context, notification appintegration.MarketplaceNotification) (*appintegration.SaleResult, error)
}

// WebhookHandler receives provider notifications. Both endpoints ALWAYS
// answer 200: a non-2xx makes the provider retry aggressively and a
// malformed or failed notification will not get better on redelivery.
type WebhookHandler struct {
	payments    PaymentWebhookProcessor
	marketplace MarketplaceWebhookProcessor
	logger      *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(payments PaymentWebhookProcessor, marketplace MarketplaceWebhookProcessor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments:    payments,
		marketplace: marketplace,
		logger:      logger,
	}
}

// RegisterRoutes registers webhook routes. These live at the engine root,
// not under the API prefix: the URLs are registered with the providers.
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payment", h.Payment)
		webhooks.POST("/marketplace", h.Marketplace)
	}
}

// paymentWebhookBody is the payment processor notification payload
type paymentWebhookBody struct {
	ID   json.Number `json:"id"`
	Type string      `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// Payment handles payment processor notifications
func (h *WebhookHandler) Payment(c *gin.Context) {
	var body paymentWebhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("Malformed payment webhook", zap.Error(err))
		h.ack(c, false, "malformed payload")
		return
	}

	notification := appordering.PaymentNotification{
		ID:     body.ID.String(),
		Type:   body.Type,
		DataID: body.Data.ID.String(),
	}
	// Old-style deliveries put everything in the query string
	if notification.Type == "" {
		notification.Type = c.Query("type")
	}
	if notification.DataID == "" || notification.DataID == "0" {
		notification.DataID = c.Query("data.id")
	}

	if err := h.payments.Process(c.Request.Context(), notification); err != nil {
		h.logger.Error("Payment webhook processing failed",
			zap.String("payment_id", notification.DataID),
			zap.Error(err),
		)
		h.ack(c, false, err.Error())
		return
	}
	h.ack(c, true, "")
}

// marketplaceWebhookBody is the marketplace notification payload
type marketplaceWebhookBody struct {
	Topic    string      `json:"topic"`
	Resource string      `json:"resource"`
	UserID   json.Number `json:"user_id"`
}

// Marketplace handles marketplace notifications
func (h *WebhookHandler) Marketplace(c *gin.Context) {
	var body marketplaceWebhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("Malformed marketplace webhook", zap.Error(err))
		h.ack(c, false, "malformed payload")
		return
	}

	notification := appintegration.MarketplaceNotification{
		Topic:    body.Topic,
		Resource: body.Resource,
		UserID:   body.UserID.String(),
	}
	if notification.Topic == "" {
		notification.Topic = c.Query("topic")
	}
	if notification.Resource == "" {
		notification.Resource = c.Query("resource")
	}
	if notification.UserID == "" || notification.UserID == "0" {
		notification.UserID = c.Query("user_id")
	}

	if _, err := h.marketplace.Process(c.Request.Context(), notification); err != nil {
		h.logger.Error("Marketplace webhook processing failed",
			zap.String("topic", notification.Topic),
			zap.String("resource", notification.Resource),
			zap.Error(err),
		)
		h.ack(c, false, err.Error())
		return
	}
	h.ack(c, true, "")
}

// ack answers the webhook sender with 200
func (h *WebhookHandler) ack(c *gin.Context, processed bool, detail string) {
	c.JSON(200, dto.AckResponse{
		Received:  true,
		Processed: processed,
		Detail:    detail,
	})
}
