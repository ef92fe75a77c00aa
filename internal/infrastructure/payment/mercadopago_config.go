package payment

import (
	"errors"
	"strings"
)

// Config validation errors
var (
	ErrMissingAccessToken = errors.New("mercadopago: access token is required")
	ErrMissingAPIBaseURL  = errors.New("mercadopago: API base URL is required")
)

// MercadoPagoConfig holds the payment processor settings
type MercadoPagoConfig struct {
	AccessToken    string
	APIBaseURL     string
	TimeoutSeconds int
}

// DefaultMercadoPagoConfig returns a config pointing at the live API
func DefaultMercadoPagoConfig(accessToken string) *MercadoPagoConfig {
	return &MercadoPagoConfig{
		AccessToken:    accessToken,
		APIBaseURL:     "https://api.mercadopago.com",
		TimeoutSeconds: 10,
	}
}

// Validate checks that the configuration is usable
func (c *MercadoPagoConfig) Validate() error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return ErrMissingAccessToken
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return ErrMissingAPIBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	return nil
}
