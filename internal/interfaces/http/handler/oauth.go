package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appintegration "github.com/shop/backend/internal/application/integration"
	"github.com/shop/backend/internal/domain/integration"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// CredentialManager manages marketplace OAuth credentials
type CredentialManager interface {
	Exchange(ctx context.Context, code, redirectURI string) (*appintegration.CredentialResponse, error)
	Refresh(ctx context.Context, userID string) (*appintegration.CredentialResponse, error)
	List(ctx context.Context) ([]appintegration.CredentialResponse, error)
}

// OAuthHandler serves the marketplace credential endpoints
type OAuthHandler struct {
	BaseHandler
	credentials CredentialManager
}

// NewOAuthHandler creates a new OAuthHandler
func NewOAuthHandler(credentials CredentialManager) *OAuthHandler {
	return &OAuthHandler{credentials: credentials}
}

// RegisterRoutes registers marketplace credential routes
func (h *OAuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	marketplace := rg.Group("/marketplace")
	{
		marketplace.POST("/oauth/exchange", h.Exchange)
		marketplace.POST("/oauth/refresh", h.Refresh)
		marketplace.GET("/credentials", h.List)
	}
}

// Exchange trades an authorization code for a stored credential
func (h *OAuthHandler) Exchange(c *gin.Context) {
	var req struct {
		Code        string `json:"code" binding:"required"`
		RedirectURI string `json:"redirect_uri"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	credential, err := h.credentials.Exchange(c.Request.Context(), req.Code, req.RedirectURI)
	if err != nil {
		h.handleCredentialError(c, err)
		return
	}
	h.Created(c, credential)
}

// Refresh forces a token refresh. With no user_id the most recently
// updated credential is refreshed.
func (h *OAuthHandler) Refresh(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id"`
	}
	// Body is optional for this endpoint
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
			return
		}
	}

	credential, err := h.credentials.Refresh(c.Request.Context(), req.UserID)
	if err != nil {
		h.handleCredentialError(c, err)
		return
	}
	h.Success(c, credential)
}

// List returns stored credentials without token values
func (h *OAuthHandler) List(c *gin.Context) {
	credentials, err := h.credentials.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credentials)
}

func (h *OAuthHandler) handleCredentialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, integration.ErrCredentialNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "No marketplace credential is linked")
	case errors.Is(err, integration.ErrNotConfigured):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeNotConfigured, "Marketplace integration is not configured")
	case errors.Is(err, integration.ErrUnauthorized), errors.Is(err, integration.ErrRequestFailed):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, err.Error())
	default:
		h.HandleError(c, err)
	}
}
