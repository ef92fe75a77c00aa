package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shop/backend/internal/domain/integration"
	"github.com/shop/backend/internal/domain/shipping"
)

// maxResponseSize is the maximum allowed response size from the API (5MB)
const maxResponseSize = 5 * 1024 * 1024

// MeliAdapter implements integration.MarketplaceClient and shipping.Client
// against the Mercado Libre REST API
type MeliAdapter struct {
	config     *MeliConfig
	httpClient *http.Client
}

// NewMeliAdapter creates a new adapter with the given configuration
func NewMeliAdapter(config *MeliConfig) (*MeliAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &MeliAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// OAuth
// ---------------------------------------------------------------------------

// ExchangeCode exchanges an authorization code for tokens
func (a *MeliAdapter) ExchangeCode(ctx context.Context, code, redirectURI string) (*integration.TokenGrant, error) {
	if redirectURI == "" {
		redirectURI = a.config.RedirectURI
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", a.config.ClientID)
	form.Set("client_secret", a.config.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	return a.requestToken(ctx, form)
}

// RefreshGrant exchanges a refresh token for fresh tokens
func (a *MeliAdapter) RefreshGrant(ctx context.Context, refreshToken string) (*integration.TokenGrant, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", a.config.ClientID)
	form.Set("client_secret", a.config.ClientSecret)
	form.Set("refresh_token", refreshToken)

	return a.requestToken(ctx, form)
}

// requestToken posts to the OAuth token endpoint and parses the grant
func (a *MeliAdapter) requestToken(ctx context.Context, form url.Values) (*integration.TokenGrant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("meli: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var token meliTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", integration.ErrInvalidResponse)
	}

	return &integration.TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresIn:    token.ExpiresIn,
		Scope:        token.Scope,
		UserID:       token.UserID,
	}, nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// GetOrder fetches an order by its notification resource path
func (a *MeliAdapter) GetOrder(ctx context.Context, accessToken, resource string) (*integration.MarketplaceOrder, error) {
	if !strings.HasPrefix(resource, "/") {
		resource = "/" + resource
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.APIBaseURL+resource, nil)
	if err != nil {
		return nil, fmt.Errorf("meli: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var order meliOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}

	result := &integration.MarketplaceOrder{
		ID:            order.ID,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		BuyerNickname: order.Buyer.Nickname,
		CreatedAt:     order.DateCreated,
		Items:         make([]integration.MarketplaceOrderItem, 0, len(order.OrderItems)),
	}
	for _, item := range order.OrderItems {
		result.Items = append(result.Items, integration.MarketplaceOrderItem{
			ItemID:    item.Item.ID,
			Title:     item.Item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Shipping
// ---------------------------------------------------------------------------

// Quote fetches shipping options for a destination zip and package spec
func (a *MeliAdapter) Quote(ctx context.Context, accessToken string, quoteReq shipping.QuoteRequest) ([]shipping.Option, error) {
	query := url.Values{}
	query.Set("zip_code", quoteReq.ZipCode)
	if quoteReq.Dimensions != "" {
		query.Set("dimensions", quoteReq.Dimensions)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.APIBaseURL+"/users/me/shipping_options?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("meli: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var resp meliShippingOptionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}

	options := make([]shipping.Option, 0, len(resp.Options))
	for _, opt := range resp.Options {
		options = append(options, shipping.Option{
			ID:                opt.ID,
			Name:              opt.Name,
			Cost:              opt.Cost,
			ListCost:          opt.ListCost,
			CurrencyID:        opt.CurrencyID,
			EstimatedDelivery: opt.EstimatedDelivery.Date,
		})
	}

	return options, nil
}

// Create creates a shipment for an order
func (a *MeliAdapter) Create(ctx context.Context, accessToken string, createReq shipping.CreateRequest) (*shipping.Shipment, error) {
	payload := meliShipmentRequest{
		OrderID:       createReq.OrderID,
		ReceiverName:  createReq.ReceiverName,
		ReceiverPhone: createReq.ReceiverPhone,
	}
	payload.ReceiverAddress.StreetName = createReq.Street
	payload.ReceiverAddress.StreetNumber = createReq.Number
	payload.ReceiverAddress.Comment = createReq.Complement
	payload.ReceiverAddress.City = createReq.City
	payload.ReceiverAddress.State = createReq.State
	payload.ReceiverAddress.ZipCode = createReq.ZipCode

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("meli: failed to encode shipment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL+"/shipments", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("meli: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var shipment meliShipmentResponse
	if err := json.Unmarshal(body, &shipment); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}

	return &shipping.Shipment{
		ID:             strconv.FormatInt(shipment.ID, 10),
		TrackingNumber: shipment.TrackingNumber,
		Status:         shipment.Status,
		LabelURL:       shipment.LabelURL,
	}, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// do executes the request and maps HTTP errors to integration sentinels
func (a *MeliAdapter) do(req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("meli: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 400:
		var apiErr meliError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d - %s", integration.ErrRequestFailed, resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// Ensure MeliAdapter implements the platform interfaces
var (
	_ integration.MarketplaceClient = (*MeliAdapter)(nil)
	_ shipping.Client               = (*MeliAdapter)(nil)
)
