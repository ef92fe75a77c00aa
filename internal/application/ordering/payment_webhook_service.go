package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/integration"
	"github.com/shop/backend/internal/domain/ordering"
	"github.com/shop/backend/internal/domain/shared"
)

// Notifier delivers order notifications in the background
type Notifier interface {
	Notify(subject, body string)
}

// PaymentNotification is the parsed payment webhook payload
type PaymentNotification struct {
	// ID is the notification id when the sender provides one
	ID string
	// Type gates processing; only "payment" notifications are handled
	Type string
	// DataID is the payment id at the processor
	DataID string
}

// PaymentWebhookService applies payment processor notifications to orders.
// The HTTP handler always ACKs the sender; errors returned here are logged,
// never surfaced, so the processor does not retry-storm the endpoint.
type PaymentWebhookService struct {
	orderRepo   ordering.OrderRepository
	gateway     integration.PaymentGateway
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	notifier    Notifier
	logger      *zap.Logger
}

// NewPaymentWebhookService creates a new PaymentWebhookService
func NewPaymentWebhookService(
	orderRepo ordering.OrderRepository,
	gateway integration.PaymentGateway,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	notifier Notifier,
	logger *zap.Logger,
) *PaymentWebhookService {
	return &PaymentWebhookService{
		orderRepo:   orderRepo,
		gateway:     gateway,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		notifier:    notifier,
		logger:      logger,
	}
}

// Process handles one payment notification. Re-delivery of the same
// notification is idempotent: the mapping re-applies to the same final
// status, and the idempotency store short-circuits exact duplicates.
func (s *PaymentWebhookService) Process(ctx context.Context, notification PaymentNotification) error {
	if notification.Type != "payment" {
		s.logger.Debug("Ignoring non-payment notification",
			zap.String("type", notification.Type),
		)
		return nil
	}
	if notification.DataID == "" {
		return fmt.Errorf("%w: payment notification without data id", shared.ErrInvalidInput)
	}

	key := s.idempotencyKey(notification)
	processed, err := s.idempotency.IsProcessed(ctx, key)
	if err != nil {
		// Store trouble must not drop the notification; fall through
		s.logger.Warn("Idempotency check failed, processing anyway", zap.Error(err))
	} else if processed {
		s.logger.Debug("Duplicate payment notification skipped",
			zap.String("payment_id", notification.DataID),
		)
		return nil
	}

	detail, err := s.gateway.GetPayment(ctx, notification.DataID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment %s: %w", notification.DataID, err)
	}

	orderID, err := uuid.Parse(detail.ExternalReference)
	if err != nil {
		// Payment not created by this storefront; nothing to update
		s.logger.Info("Payment has no usable external reference",
			zap.String("payment_id", detail.ID),
			zap.String("external_reference", detail.ExternalReference),
		)
		return nil
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Payment references unknown order",
				zap.String("payment_id", detail.ID),
				zap.String("order_id", orderID.String()),
			)
			return nil
		}
		return err
	}

	changed := order.ApplyPaymentStatus(detail.ID, detail.Status)
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to persist payment status on order %s: %w", order.ID, err)
	}

	s.logger.Info("Payment notification applied",
		zap.String("payment_id", detail.ID),
		zap.String("order_id", order.ID.String()),
		zap.String("provider_status", detail.Status),
		zap.String("order_status", string(order.Status)),
		zap.Bool("changed", changed),
	)

	if changed && s.notifier != nil {
		s.notifier.Notify(
			fmt.Sprintf("Order %s is now %s", order.ID, order.Status),
			fmt.Sprintf("Payment %s reported status %q. Order total: %s. Buyer: %s (%s).",
				detail.ID, detail.Status, order.Total.StringFixed(2), order.BuyerName, order.BuyerEmail),
		)
	}

	if _, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL); err != nil {
		s.logger.Warn("Failed to mark notification processed", zap.Error(err))
	}
	return nil
}

// idempotencyKey dedupes by notification id when present, payment id
// otherwise
func (s *PaymentWebhookService) idempotencyKey(n PaymentNotification) string {
	if n.ID != "" {
		return "payment:notification:" + n.ID
	}
	return "payment:data:" + n.DataID
}
