package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteRequest asks the marketplace shipping API for delivery options
type QuoteRequest struct {
	ZipCode string
	// Dimensions is the package spec in the carrier format
	// "<height>x<width>x<length>,<weight_grams>", e.g. "30x30x30,500"
	Dimensions string
}

// Option is a single shipping option as returned by the carrier API.
// The option list is passed through to the storefront unmodified.
type Option struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Cost              decimal.Decimal `json:"cost"`
	ListCost          decimal.Decimal `json:"list_cost"`
	CurrencyID        string          `json:"currency_id"`
	EstimatedDelivery string          `json:"estimated_delivery"`
}

// CreateRequest creates a shipment for a paid order
type CreateRequest struct {
	OrderID       string
	ReceiverName  string
	ReceiverPhone string
	Street        string
	Number        string
	Complement    string
	City          string
	State         string
	ZipCode       string
}

// Shipment is the carrier's record of a created shipment
type Shipment struct {
	ID             string
	TrackingNumber string
	Status         string
	LabelURL       string
}

// Client talks to the marketplace shipping API
type Client interface {
	Quote(ctx context.Context, accessToken string, req QuoteRequest) ([]Option, error)
	Create(ctx context.Context, accessToken string, req CreateRequest) (*Shipment, error)
}
