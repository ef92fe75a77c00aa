package ordering

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
)

// Address holds the structured shipping address captured at checkout
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
}

// Validate checks that the required address fields are present
func (a Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City is required")
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Zip code is required")
	}
	return nil
}

// OrderItem represents a single line of an order
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
}

// Subtotal returns quantity times unit price
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer purchase. Orders are never deleted; after
// checkout they are only mutated by the payment webhook and shipment paths.
type Order struct {
	shared.BaseEntity
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
	BuyerPhone string `json:"buyer_phone"`

	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	Items []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Total decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`

	Status OrderStatus `gorm:"default:pending;index" json:"status"`

	// PaymentID and PaymentStatus record the processor's payment as-is.
	// PaymentStatus keeps the raw provider value, not the mapped one.
	PaymentID     string `gorm:"index" json:"payment_id"`
	PaymentStatus string `json:"payment_status"`

	ShipmentID     string `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
}

// NewOrder creates a pending order from buyer details and line items
func NewOrder(buyerName, buyerEmail, buyerPhone string, address Address, items []OrderItem) (*Order, error) {
	if strings.TrimSpace(buyerEmail) == "" {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer email is required")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	order := &Order{
		BaseEntity: shared.NewBaseEntity(),
		BuyerName:  buyerName,
		BuyerEmail: buyerEmail,
		BuyerPhone: buyerPhone,
		Address:    address,
		Status:     OrderStatusPending,
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "Item quantity must be positive")
		}
		item.ID = uuid.New()
		item.OrderID = order.ID
		total = total.Add(item.Subtotal())
		order.Items = append(order.Items, item)
	}
	order.Total = total

	return order, nil
}

// ApplyPaymentStatus records a payment notification on the order and
// returns true if the mapped order status changed. Applying the same
// provider status twice is a no-op.
func (o *Order) ApplyPaymentStatus(paymentID, providerStatus string) bool {
	o.PaymentID = paymentID
	o.PaymentStatus = providerStatus

	mapped := MapPaymentStatus(providerStatus)
	if o.Status == mapped {
		return false
	}
	o.Status = mapped
	o.UpdatedAt = time.Now()
	return true
}

// SetShipment records the created shipment on the order
func (o *Order) SetShipment(shipmentID, trackingNumber string) {
	o.ShipmentID = shipmentID
	o.TrackingNumber = trackingNumber
	o.Status = OrderStatusShipped
	o.UpdatedAt = time.Now()
}

// HasTracking returns true if a shipment with tracking exists for the order
func (o *Order) HasTracking() bool {
	return o.TrackingNumber != ""
}

// IsPaid returns true if the order's payment was approved
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusApproved
}
