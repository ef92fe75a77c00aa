package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/ordering"
)

// CheckoutItem is one line of a checkout request
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

// CheckoutRequest is the request to place an order
type CheckoutRequest struct {
	BuyerName  string           `json:"buyer_name"`
	BuyerEmail string           `json:"buyer_email" binding:"required"`
	BuyerPhone string           `json:"buyer_phone"`
	Address    ordering.Address `json:"address"`
	Items      []CheckoutItem   `json:"items" binding:"required"`
}

// OrderItemResponse is the API representation of an order line
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID             string              `json:"id"`
	BuyerName      string              `json:"buyer_name"`
	BuyerEmail     string              `json:"buyer_email"`
	BuyerPhone     string              `json:"buyer_phone"`
	Address        ordering.Address    `json:"address"`
	Items          []OrderItemResponse `json:"items"`
	Total          decimal.Decimal     `json:"total"`
	Status         string              `json:"status"`
	PaymentID      string              `json:"payment_id,omitempty"`
	PaymentStatus  string              `json:"payment_status,omitempty"`
	ShipmentID     string              `json:"shipment_id,omitempty"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}

	return OrderResponse{
		ID:             o.ID.String(),
		BuyerName:      o.BuyerName,
		BuyerEmail:     o.BuyerEmail,
		BuyerPhone:     o.BuyerPhone,
		Address:        o.Address,
		Items:          items,
		Total:          o.Total,
		Status:         string(o.Status),
		PaymentID:      o.PaymentID,
		PaymentStatus:  o.PaymentStatus,
		ShipmentID:     o.ShipmentID,
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
