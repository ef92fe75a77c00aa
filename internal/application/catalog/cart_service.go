package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/catalog"
)

// CartItem is one line of a storefront cart
type CartItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

// ReconciledItem is a cart line after checking it against the catalog
type ReconciledItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Clamped   bool      `json:"clamped"`
}

// ReconcileResult reports what survived the reconciliation
type ReconcileResult struct {
	Items    []ReconciledItem `json:"items"`
	Removed  []uuid.UUID      `json:"removed"`
	Adjusted bool             `json:"adjusted"`
}

// CartService validates storefront carts against the live catalog
type CartService struct {
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(productRepo catalog.ProductRepository) *CartService {
	return &CartService{productRepo: productRepo}
}

// Reconcile checks cart items against current products. Items whose product
// no longer exists are dropped, quantities above available stock are clamped
// down. The result reports whether anything was adjusted so the storefront
// can tell the buyer before checkout.
func (s *CartService) Reconcile(ctx context.Context, items []CartItem) (*ReconcileResult, error) {
	result := &ReconcileResult{
		Items:   make([]ReconciledItem, 0, len(items)),
		Removed: make([]uuid.UUID, 0),
	}
	if len(items) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsAvailable() {
			result.Removed = append(result.Removed, item.ProductID)
			result.Adjusted = true
			continue
		}

		quantity := item.Quantity
		clamped := false
		if quantity > product.Stock {
			quantity = product.Stock
			clamped = true
			result.Adjusted = true
		}
		if quantity <= 0 {
			result.Removed = append(result.Removed, item.ProductID)
			result.Adjusted = true
			continue
		}

		result.Items = append(result.Items, ReconciledItem{
			ProductID: item.ProductID,
			Quantity:  quantity,
			Clamped:   clamped,
		})
	}

	return result, nil
}
