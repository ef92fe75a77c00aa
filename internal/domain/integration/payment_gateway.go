package integration

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentDetail is the payment record fetched from the processor after a
// webhook notification. ExternalReference carries the storefront order id
// that was attached when the checkout preference was created.
type PaymentDetail struct {
	ID                string
	Status            string
	StatusDetail      string
	ExternalReference string
	TransactionAmount decimal.Decimal
	PaymentMethodID   string
	PaymentTypeID     string
}

// PaymentGateway fetches payment details from the payment processor
type PaymentGateway interface {
	GetPayment(ctx context.Context, paymentID string) (*PaymentDetail, error)
}
