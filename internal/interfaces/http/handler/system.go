package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shop/backend/internal/infrastructure/config"
)

// SystemHandler serves health and environment probes
type SystemHandler struct {
	BaseHandler
	cfg       *config.Config
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
		system.GET("/info", h.Info)
		system.GET("/env", h.Env)
	}
}

// Ping answers liveness checks
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Info reports service identity and uptime
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":    h.cfg.App.Name,
		"env":     h.cfg.App.Env,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"started": h.startedAt,
	})
}

// Env reports which credential groups are configured. Booleans only, the
// values themselves are never exposed.
func (h *SystemHandler) Env(c *gin.Context) {
	h.Success(c, gin.H{
		"payment":     h.cfg.Payment.Configured(),
		"marketplace": h.cfg.Marketplace.Configured(),
		"smtp":        h.cfg.Notification.SMTP.Configured(),
		"whatsapp":    h.cfg.Notification.WhatsApp.Configured(),
		"redis":       h.cfg.Redis.Host != "",
	})
}
