package ordering

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/ordering"
	"github.com/shop/backend/internal/domain/shared"
)

// CheckoutService places storefront orders
type CheckoutService struct {
	orderRepo   ordering.OrderRepository
	productRepo catalog.ProductRepository
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(orderRepo ordering.OrderRepository, productRepo catalog.ProductRepository) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Checkout creates a pending order from the request. Item prices are
// snapshotted from the catalog at checkout time, the client never sets
// them. Orders stay pending until the payment webhook moves them on.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
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

	items := make([]ordering.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND",
				fmt.Sprintf("Product %s does not exist", item.ProductID))
		}
		if item.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: %s has %d in stock, %d requested",
				shared.ErrInsufficientStock, product.Name, product.Stock, item.Quantity)
		}
		items = append(items, ordering.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
	}

	order, err := ordering.NewOrder(req.BuyerName, req.BuyerEmail, req.BuyerPhone, req.Address, items)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *CheckoutService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a page of orders
func (s *CheckoutService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderResponse(&orders[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}
