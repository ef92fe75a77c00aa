package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/catalog"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	Category          string          `json:"category"`
	Brand             string          `json:"brand"`
	Condition         string          `json:"condition"`
	ImageURLs         []string        `json:"image_urls"`
	MarketplaceItemID string          `json:"marketplace_item_id"`
}

// UpdateProductRequest is the request to update a product. Nil fields are
// left unchanged.
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	Stock             *int             `json:"stock"`
	Category          *string          `json:"category"`
	Brand             *string          `json:"brand"`
	Condition         *string          `json:"condition"`
	ImageURLs         []string         `json:"image_urls"`
	MarketplaceItemID *string          `json:"marketplace_item_id"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	Stock               int             `json:"stock"`
	Available           bool            `json:"available"`
	Category            string          `json:"category"`
	Brand               string          `json:"brand"`
	Condition           string          `json:"condition"`
	ImageURLs           []string        `json:"image_urls"`
	MarketplaceItemID   string          `json:"marketplace_item_id,omitempty"`
	MarketplaceSyncedAt *time.Time      `json:"marketplace_synced_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                  p.ID.String(),
		Name:                p.Name,
		Description:         p.Description,
		Price:               p.Price,
		Stock:               p.Stock,
		Available:           p.IsAvailable(),
		Category:            p.Category,
		Brand:               p.Brand,
		Condition:           string(p.Condition),
		ImageURLs:           p.ImageURLs,
		MarketplaceItemID:   p.MarketplaceItemID,
		MarketplaceSyncedAt: p.MarketplaceSyncedAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
