package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shop/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the API (1MB)
const maxResponseSize = 1 * 1024 * 1024

// MercadoPagoAdapter implements integration.PaymentGateway against the
// Mercado Pago payments API
type MercadoPagoAdapter struct {
	config     *MercadoPagoConfig
	httpClient *http.Client
}

// NewMercadoPagoAdapter creates a new adapter with the given configuration
func NewMercadoPagoAdapter(config *MercadoPagoConfig) (*MercadoPagoAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &MercadoPagoAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// GetPayment fetches the payment detail for a webhook notification
func (a *MercadoPagoAdapter) GetPayment(ctx context.Context, paymentID string) (*integration.PaymentDetail, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: empty payment id", integration.ErrRequestFailed)
	}

	body, err := a.doRequest(ctx, "/v1/payments/"+paymentID)
	if err != nil {
		return nil, err
	}

	var payment mercadoPagoPayment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}

	return &integration.PaymentDetail{
		ID:                strconv.FormatInt(payment.ID, 10),
		Status:            payment.Status,
		StatusDetail:      payment.StatusDetail,
		ExternalReference: payment.ExternalReference,
		TransactionAmount: payment.TransactionAmount,
		PaymentMethodID:   payment.PaymentMethodID,
		PaymentTypeID:     payment.PaymentTypeID,
	}, nil
}

// doRequest performs an authenticated GET against the payments API
func (a *MercadoPagoAdapter) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.APIBaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("mercadopago: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 400:
		var apiErr mercadoPagoError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d - %s", integration.ErrRequestFailed, resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// Ensure MercadoPagoAdapter implements PaymentGateway
var _ integration.PaymentGateway = (*MercadoPagoAdapter)(nil)
