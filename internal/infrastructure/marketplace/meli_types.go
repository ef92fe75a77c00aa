package marketplace

import (
	"time"

	"github.com/shopspring/decimal"
)

// meliTokenResponse is the wire format of POST /oauth/token
type meliTokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	UserID       int64  `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

// meliOrder is the wire format of GET /orders/{id}
type meliOrder struct {
	ID          int64           `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DateCreated time.Time       `json:"date_created"`
	Buyer       struct {
		Nickname string `json:"nickname"`
	} `json:"buyer"`
	OrderItems []struct {
		Item struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"item"`
		Quantity  int             `json:"quantity"`
		UnitPrice decimal.Decimal `json:"unit_price"`
	} `json:"order_items"`
}

// meliShippingOption is one option in GET shipping_options responses
type meliShippingOption struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Cost             decimal.Decimal `json:"cost"`
	ListCost         decimal.Decimal `json:"list_cost"`
	CurrencyID       string          `json:"currency_id"`
	EstimatedDelivery struct {
		Date string `json:"date"`
	} `json:"estimated_delivery_time"`
}

// meliShippingOptionsResponse wraps the option list
type meliShippingOptionsResponse struct {
	Options []meliShippingOption `json:"options"`
}

// meliShipmentRequest is the wire format of POST /shipments
type meliShipmentRequest struct {
	OrderID         string `json:"order_id"`
	ReceiverName    string `json:"receiver_name"`
	ReceiverPhone   string `json:"receiver_phone,omitempty"`
	ReceiverAddress struct {
		StreetName    string `json:"street_name"`
		StreetNumber  string `json:"street_number"`
		Comment       string `json:"comment,omitempty"`
		City          string `json:"city"`
		State         string `json:"state"`
		ZipCode       string `json:"zip_code"`
	} `json:"receiver_address"`
}

// meliShipmentResponse is the wire format of a created shipment
type meliShipmentResponse struct {
	ID             int64  `json:"id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	LabelURL       string `json:"label_url"`
}

// meliError is the wire format of an API error response
type meliError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}
