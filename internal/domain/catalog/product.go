package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
)

// ProductCondition indicates whether a product is sold new or used
type ProductCondition string

const (
	ProductConditionNew  ProductCondition = "new"
	ProductConditionUsed ProductCondition = "used"
)

// Product represents a sellable catalog item
type Product struct {
	shared.BaseEntity
	Name        string           `gorm:"not null" json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2)" json:"price"`
	Stock       int              `gorm:"not null;default:0" json:"stock"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
	Condition   ProductCondition `gorm:"default:new" json:"condition"`
	ImageURLs   []string         `gorm:"serializer:json" json:"image_urls"`

	// Marketplace linkage. Empty MarketplaceItemID means the product is
	// not published on the marketplace.
	MarketplaceItemID   string     `gorm:"index" json:"marketplace_item_id"`
	MarketplaceSyncedAt *time.Time `json:"marketplace_synced_at"`
}

// NewProduct creates a new product with validation
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_STOCK", "Product stock cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Stock:      stock,
		Condition:  ProductConditionNew,
	}, nil
}

// IsAvailable returns true if the product can currently be sold
func (p *Product) IsAvailable() bool {
	return p.Stock > 0
}

// SetStock replaces the stock level. Stock is never allowed to go negative.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_PRODUCT_STOCK", "Product stock cannot be negative")
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	return nil
}

// LinkMarketplaceItem records the marketplace listing this product maps to
func (p *Product) LinkMarketplaceItem(itemID string) {
	now := time.Now()
	p.MarketplaceItemID = itemID
	p.MarketplaceSyncedAt = &now
	p.UpdatedAt = now
}

// MainImageURL returns the first image URL, or empty string if none
func (p *Product) MainImageURL() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
