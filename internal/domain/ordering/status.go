package ordering

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	// OrderStatusPending means the order is awaiting payment confirmation
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing means payment was approved and the order is
	// being prepared for shipment
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped means a shipment was created for the order
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusCancelled means payment was rejected or cancelled
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Payment processor statuses as delivered by the gateway
const (
	PaymentStatusApproved  = "approved"
	PaymentStatusPending   = "pending"
	PaymentStatusInProcess = "in_process"
	PaymentStatusRejected  = "rejected"
	PaymentStatusCancelled = "cancelled"
)

// MapPaymentStatus translates a payment processor status into an order
// status. Unknown statuses map to pending so the order stays actionable
// until a terminal status arrives.
func MapPaymentStatus(providerStatus string) OrderStatus {
	switch providerStatus {
	case PaymentStatusApproved:
		return OrderStatusProcessing
	case PaymentStatusPending, PaymentStatusInProcess:
		return OrderStatusPending
	case PaymentStatusRejected, PaymentStatusCancelled:
		return OrderStatusCancelled
	default:
		return OrderStatusPending
	}
}
