package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error

	// FindPaidWithoutTracking returns orders whose payment was approved
	// but that have no tracking number yet. Used by the shipment retry
	// sweep.
	FindPaidWithoutTracking(ctx context.Context) ([]Order, error)
}
