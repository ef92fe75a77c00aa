package marketplace

import (
	"errors"
	"strings"
)

// Config validation errors
var (
	ErrMissingClientID     = errors.New("meli: client id is required")
	ErrMissingClientSecret = errors.New("meli: client secret is required")
	ErrMissingAPIBaseURL   = errors.New("meli: API base URL is required")
)

// MeliConfig holds the marketplace application settings
type MeliConfig struct {
	ClientID       string
	ClientSecret   string
	RedirectURI    string
	APIBaseURL     string
	TimeoutSeconds int
}

// DefaultMeliConfig returns a config pointing at the live API
func DefaultMeliConfig(clientID, clientSecret string) *MeliConfig {
	return &MeliConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		APIBaseURL:     "https://api.mercadolibre.com",
		TimeoutSeconds: 10,
	}
}

// Validate checks that the configuration is usable
func (c *MeliConfig) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return ErrMissingClientID
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		return ErrMissingClientSecret
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return ErrMissingAPIBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	return nil
}
