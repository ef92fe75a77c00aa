package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogFeedWriter streams the product feed
type CatalogFeedWriter interface {
	WriteCSV(ctx context.Context, w io.Writer) error
}

// FeedHandler serves the merchant catalog feed
type FeedHandler struct {
	feed   CatalogFeedWriter
	logger *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed CatalogFeedWriter, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: logger}
}

// RegisterRoutes registers the feed route. Crawlers fetch this URL
// directly, so it lives at the engine root.
func (h *FeedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed/catalog.csv", h.CatalogCSV)
}

// CatalogCSV streams the catalog as CSV
func (h *FeedHandler) CatalogCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `inline; filename="catalog.csv"`)
	c.Status(http.StatusOK)

	if err := h.feed.WriteCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers are already out, all we can do is log and cut the stream
		h.logger.Error("Catalog feed streaming failed", zap.Error(err))
	}
}
