package shipping

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/ordering"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shipping"
)

// CredentialSource resolves marketplace access tokens for the shipping API
type CredentialSource interface {
	AccessTokenFor(ctx context.Context, userID string) (token, resolvedUserID string, err error)
}

// ShipmentResponse is the API representation of a created shipment
type ShipmentResponse struct {
	OrderID        string `json:"order_id"`
	ShipmentID     string `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	LabelURL       string `json:"label_url,omitempty"`
}

// RetryResult reports one order of the retry sweep
type RetryResult struct {
	OrderID        string `json:"order_id"`
	Success        bool   `json:"success"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ShipmentService quotes and creates shipments through the marketplace
// shipping API
type ShipmentService struct {
	client      shipping.Client
	orderRepo   ordering.OrderRepository
	credentials CredentialSource
	logger      *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(client shipping.Client, orderRepo ordering.OrderRepository, credentials CredentialSource, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{
		client:      client,
		orderRepo:   orderRepo,
		credentials: credentials,
		logger:      logger,
	}
}

// Quote returns the carrier options for a destination. Quoting is best
// effort: any failure yields an empty list so the storefront can still
// render checkout without shipping choices.
func (s *ShipmentService) Quote(ctx context.Context, req shipping.QuoteRequest) []shipping.Option {
	token, _, err := s.credentials.AccessTokenFor(ctx, "")
	if err != nil {
		s.logger.Warn("Shipping quote skipped, no credential", zap.Error(err))
		return []shipping.Option{}
	}

	options, err := s.client.Quote(ctx, token, req)
	if err != nil {
		s.logger.Warn("Shipping quote failed",
			zap.String("zip_code", req.ZipCode),
			zap.Error(err),
		)
		return []shipping.Option{}
	}
	if options == nil {
		options = []shipping.Option{}
	}
	return options
}

// CreateForOrder creates a shipment for the order and persists the shipment
// id and tracking number on it
func (s *ShipmentService) CreateForOrder(ctx context.Context, orderID uuid.UUID) (*ShipmentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.HasTracking() {
		return nil, fmt.Errorf("%w: order %s already has tracking %s",
			shared.ErrInvalidState, order.ID, order.TrackingNumber)
	}

	shipment, err := s.create(ctx, order)
	if err != nil {
		return nil, err
	}

	return &ShipmentResponse{
		OrderID:        order.ID.String(),
		ShipmentID:     shipment.ID,
		TrackingNumber: shipment.TrackingNumber,
		Status:         shipment.Status,
		LabelURL:       shipment.LabelURL,
	}, nil
}

// Retry sweeps orders that were paid but never got a tracking number and
// re-creates their shipments one by one. Results are reported per order;
// one failure does not stop the sweep.
func (s *ShipmentService) Retry(ctx context.Context) ([]RetryResult, error) {
	orders, err := s.orderRepo.FindPaidWithoutTracking(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]RetryResult, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		result := RetryResult{OrderID: order.ID.String()}

		shipment, err := s.create(ctx, order)
		if err != nil {
			result.Error = err.Error()
			s.logger.Warn("Shipment retry failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		} else {
			result.Success = true
			result.TrackingNumber = shipment.TrackingNumber
		}
		results = append(results, result)
	}

	s.logger.Info("Shipment retry sweep finished", zap.Int("orders", len(results)))
	return results, nil
}

// create calls the shipping API and persists the result on the order
func (s *ShipmentService) create(ctx context.Context, order *ordering.Order) (*shipping.Shipment, error) {
	token, _, err := s.credentials.AccessTokenFor(ctx, "")
	if err != nil {
		return nil, err
	}

	shipment, err := s.client.Create(ctx, token, shipping.CreateRequest{
		OrderID:       order.ID.String(),
		ReceiverName:  order.BuyerName,
		ReceiverPhone: order.BuyerPhone,
		Street:        order.Address.Street,
		Number:        order.Address.Number,
		Complement:    order.Address.Complement,
		City:          order.Address.City,
		State:         order.Address.State,
		ZipCode:       order.Address.ZipCode,
	})
	if err != nil {
		return nil, err
	}

	order.SetShipment(shipment.ID, shipment.TrackingNumber)
	if err := s.orderRepo.Save(ctx, order); err != nil {
		// The shipment exists upstream; losing the local link is logged,
		// the retry sweep will not pick this order up again once saved
		s.logger.Error("Failed to persist shipment on order",
			zap.String("order_id", order.ID.String()),
			zap.String("shipment_id", shipment.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Shipment created",
		zap.String("order_id", order.ID.String()),
		zap.String("shipment_id", shipment.ID),
		zap.String("tracking_number", shipment.TrackingNumber),
	)
	return shipment, nil
}
