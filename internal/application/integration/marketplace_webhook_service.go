package integration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/integration"
	"github.com/shop/backend/internal/domain/shared"
)

// Notifier delivers sale notifications in the background
type Notifier interface {
	Notify(subject, body string)
}

// CredentialSource resolves and refreshes marketplace access tokens
type CredentialSource interface {
	AccessTokenFor(ctx context.Context, userID string) (token, resolvedUserID string, err error)
	RefreshAccessToken(ctx context.Context, userID string) (string, error)
}

// MarketplaceNotification is the parsed marketplace webhook payload
type MarketplaceNotification struct {
	// Topic gates processing; only the orders family is handled
	Topic string
	// Resource is the API path of the changed entity, e.g. /orders/123
	Resource string
	// UserID is the marketplace account the notification belongs to.
	// Empty on old-style notifications.
	UserID string
}

// SaleResult reports what one marketplace order notification did
type SaleResult struct {
	OrderID       int64
	Decremented   int
	Failed        int
	UnlinkedItems []string
}

// MarketplaceWebhookService reconciles marketplace sale notifications with
// the local catalog: it pulls the sold order, decrements stock for every
// linked product and fires a sale summary notification. The HTTP handler
// always ACKs the sender.
type MarketplaceWebhookService struct {
	credentials CredentialSource
	client      integration.MarketplaceClient
	productRepo catalog.ProductRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	notifier    Notifier
	logger      *zap.Logger
}

// NewMarketplaceWebhookService creates a new MarketplaceWebhookService
func NewMarketplaceWebhookService(
	credentials CredentialSource,
	client integration.MarketplaceClient,
	productRepo catalog.ProductRepository,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	notifier Notifier,
	logger *zap.Logger,
) *MarketplaceWebhookService {
	return &MarketplaceWebhookService{
		credentials: credentials,
		client:      client,
		productRepo: productRepo,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		notifier:    notifier,
		logger:      logger,
	}
}

// isOrdersTopic returns true for the orders notification family
// (orders, orders_v2, orders_feedback is excluded)
func isOrdersTopic(topic string) bool {
	return topic == "orders" || strings.HasPrefix(topic, "orders_v")
}

// Process handles one marketplace notification. Stock decrements are not
// naturally idempotent, so replayed deliveries are short-circuited by the
// idempotency store before any decrement happens.
func (s *MarketplaceWebhookService) Process(ctx context.Context, notification MarketplaceNotification) (*SaleResult, error) {
	if !isOrdersTopic(notification.Topic) {
		s.logger.Debug("Ignoring non-order marketplace notification",
			zap.String("topic", notification.Topic),
		)
		return nil, nil
	}
	if notification.Resource == "" {
		return nil, fmt.Errorf("%w: marketplace notification without resource", shared.ErrInvalidInput)
	}

	key := "marketplace:" + notification.Resource
	if processed, err := s.idempotency.IsProcessed(ctx, key); err != nil {
		s.logger.Warn("Idempotency check failed, processing anyway", zap.Error(err))
	} else if processed {
		s.logger.Debug("Duplicate marketplace notification skipped",
			zap.String("resource", notification.Resource),
		)
		return nil, nil
	}

	order, err := s.fetchOrder(ctx, notification)
	if err != nil {
		return nil, err
	}

	// Per-item failures never abort the sweep: returning early would skip
	// MarkProcessed and a redelivery would decrement the items that already
	// succeeded a second time.
	result := &SaleResult{OrderID: order.ID}
	for _, item := range order.Items {
		product, err := s.productRepo.FindByMarketplaceItemID(ctx, item.ItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// Sold item has no local product; record it and keep going
				result.UnlinkedItems = append(result.UnlinkedItems, item.ItemID)
				s.logger.Warn("Marketplace item not linked to a product",
					zap.String("item_id", item.ItemID),
					zap.Int64("order_id", order.ID),
				)
				continue
			}
			result.Failed++
			s.logger.Error("Failed to look up marketplace item",
				zap.String("item_id", item.ItemID),
				zap.Int64("order_id", order.ID),
				zap.Error(err),
			)
			continue
		}

		if err := s.productRepo.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
			result.Failed++
			s.logger.Error("Failed to decrement stock",
				zap.String("product_id", product.ID.String()),
				zap.String("item_id", item.ItemID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			continue
		}
		result.Decremented++
	}

	s.logger.Info("Marketplace sale processed",
		zap.Int64("order_id", order.ID),
		zap.String("status", order.Status),
		zap.Int("decremented", result.Decremented),
		zap.Int("failed", result.Failed),
		zap.Strings("unlinked_items", result.UnlinkedItems),
	)

	if s.notifier != nil {
		s.notifier.Notify(
			fmt.Sprintf("Marketplace sale %d", order.ID),
			s.saleSummary(order, result),
		)
	}

	if _, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL); err != nil {
		s.logger.Warn("Failed to mark notification processed", zap.Error(err))
	}
	return result, nil
}

// fetchOrder pulls the order, refreshing the credential once when the
// stored access token is rejected
func (s *MarketplaceWebhookService) fetchOrder(ctx context.Context, notification MarketplaceNotification) (*integration.MarketplaceOrder, error) {
	token, userID, err := s.credentials.AccessTokenFor(ctx, notification.UserID)
	if err != nil {
		return nil, err
	}

	order, err := s.client.GetOrder(ctx, token, notification.Resource)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, integration.ErrUnauthorized) {
		return nil, err
	}

	s.logger.Info("Access token rejected, refreshing once",
		zap.String("user_id", userID),
	)
	token, err = s.credentials.RefreshAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.client.GetOrder(ctx, token, notification.Resource)
}

func (s *MarketplaceWebhookService) saleSummary(order *integration.MarketplaceOrder, result *SaleResult) string {
	var b strings.Builder
	b.WriteString("Order " + strconv.FormatInt(order.ID, 10) + " (" + order.Status + ")")
	if order.BuyerNickname != "" {
		b.WriteString(" from " + order.BuyerNickname)
	}
	b.WriteString("\nTotal: " + order.TotalAmount.StringFixed(2) + "\n")
	for _, item := range order.Items {
		b.WriteString(fmt.Sprintf("- %dx %s (%s)\n", item.Quantity, item.Title, item.ItemID))
	}
	if len(result.UnlinkedItems) > 0 {
		b.WriteString("Unlinked items: " + strings.Join(result.UnlinkedItems, ", "))
	}
	return b.String()
}
