package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/integration"
	"github.com/shop/backend/internal/domain/ordering"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/cache"
)

func newWebhookService(t *testing.T, orderRepo *MockOrderRepository, gateway *MockPaymentGateway, notifier Notifier) *PaymentWebhookService {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })
	return NewPaymentWebhookService(orderRepo, gateway, store, shared.DefaultIdempotencyConfig(), notifier, zap.NewNop())
}

func pendingOrder(t *testing.T) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder("Ana", "ana@example.com", "", testAddress(), []ordering.OrderItem{
		{Quantity: 1, UnitPrice: decimal.NewFromFloat(140.90)},
	})
	require.NoError(t, err)
	return order
}

func TestPaymentWebhookApprovedMovesOrderToProcessing(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	notifier := &recordingNotifier{}
	service := newWebhookService(t, orderRepo, gateway, notifier)

	order := pendingOrder(t)
	gateway.On("GetPayment", mock.Anything, "12345").Return(&integration.PaymentDetail{
		ID:                "12345",
		Status:            "approved",
		ExternalReference: order.ID.String(),
	}, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	err := service.Process(context.Background(), PaymentNotification{Type: "payment", DataID: "12345"})
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusProcessing, order.Status)
	assert.Equal(t, "approved", order.PaymentStatus)
	assert.Equal(t, 1, notifier.count())
}

func TestPaymentWebhookIgnoresOtherTypes(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := newWebhookService(t, orderRepo, gateway, &recordingNotifier{})

	err := service.Process(context.Background(), PaymentNotification{Type: "merchant_order", DataID: "1"})
	require.NoError(t, err)
	gateway.AssertNotCalled(t, "GetPayment")
}

func TestPaymentWebhookReplayIsIdempotent(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	notifier := &recordingNotifier{}
	service := newWebhookService(t, orderRepo, gateway, notifier)

	order := pendingOrder(t)
	gateway.On("GetPayment", mock.Anything, "12345").Return(&integration.PaymentDetail{
		ID:                "12345",
		Status:            "approved",
		ExternalReference: order.ID.String(),
	}, nil).Once()
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	notification := PaymentNotification{ID: "n-1", Type: "payment", DataID: "12345"}
	require.NoError(t, service.Process(context.Background(), notification))
	require.NoError(t, service.Process(context.Background(), notification))

	// Second delivery is short-circuited before the gateway call
	gateway.AssertNumberOfCalls(t, "GetPayment", 1)
	assert.Equal(t, ordering.OrderStatusProcessing, order.Status)
	assert.Equal(t, 1, notifier.count())
}

func TestPaymentWebhookUnknownOrderIsNoOp(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := newWebhookService(t, orderRepo, gateway, &recordingNotifier{})

	order := pendingOrder(t)
	gateway.On("GetPayment", mock.Anything, "12345").Return(&integration.PaymentDetail{
		ID:                "12345",
		Status:            "approved",
		ExternalReference: order.ID.String(),
	}, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(nil, shared.ErrNotFound)

	err := service.Process(context.Background(), PaymentNotification{Type: "payment", DataID: "12345"})
	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "Save")
}

func TestPaymentWebhookNonOrderReferenceIsNoOp(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := newWebhookService(t, orderRepo, gateway, &recordingNotifier{})

	gateway.On("GetPayment", mock.Anything, "12345").Return(&integration.PaymentDetail{
		ID:                "12345",
		Status:            "approved",
		ExternalReference: "not-an-order-id",
	}, nil)

	err := service.Process(context.Background(), PaymentNotification{Type: "payment", DataID: "12345"})
	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "FindByID")
}

func TestPaymentWebhookGatewayFailureSurfacesError(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := newWebhookService(t, orderRepo, gateway, &recordingNotifier{})

	gateway.On("GetPayment", mock.Anything, "12345").
		Return(nil, errors.New("processor unreachable"))

	err := service.Process(context.Background(), PaymentNotification{Type: "payment", DataID: "12345"})
	require.Error(t, err)
}

func TestPaymentWebhookRejectedCancelsOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockPaymentGateway)
	service := newWebhookService(t, orderRepo, gateway, &recordingNotifier{})

	order := pendingOrder(t)
	gateway.On("GetPayment", mock.Anything, "777").Return(&integration.PaymentDetail{
		ID:                "777",
		Status:            "rejected",
		ExternalReference: order.ID.String(),
	}, nil)
	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	err := service.Process(context.Background(), PaymentNotification{Type: "payment", DataID: "777"})
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusCancelled, order.Status)
	assert.Equal(t, "rejected", order.PaymentStatus)
}
