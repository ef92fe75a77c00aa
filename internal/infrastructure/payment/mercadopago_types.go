package payment

import "github.com/shopspring/decimal"

// mercadoPagoPayment is the wire format of GET /v1/payments/{id}
type mercadoPagoPayment struct {
	ID                int64           `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	ExternalReference string          `json:"external_reference"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	PaymentMethodID   string          `json:"payment_method_id"`
	PaymentTypeID     string          `json:"payment_type_id"`
	CurrencyID        string          `json:"currency_id"`
}

// mercadoPagoError is the wire format of an API error response
type mercadoPagoError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}
