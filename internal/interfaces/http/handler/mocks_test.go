package handler

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	appcatalog "github.com/shop/backend/internal/application/catalog"
	appintegration "github.com/shop/backend/internal/application/integration"
	appordering "github.com/shop/backend/internal/application/ordering"
	appshipping "github.com/shop/backend/internal/application/shipping"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shipping"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds a bare engine and registers the handler on its root
func newTestRouter(register func(rg *gin.RouterGroup)) *gin.Engine {
	engine := gin.New()
	register(engine.Group(""))
	return engine
}

func performRequest(engine *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func jsonBody(s string) io.Reader {
	return bytes.NewBufferString(s)
}

// MockProductService is a mock implementation of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, req appcatalog.CreateProductRequest) (*appcatalog.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ProductResponse), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[appcatalog.ProductResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[appcatalog.ProductResponse]), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req appcatalog.UpdateProductRequest) (*appcatalog.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ProductResponse), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCartService is a mock implementation of CartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Reconcile(ctx context.Context, items []appcatalog.CartItem) (*appcatalog.ReconcileResult, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ReconcileResult), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, req appordering.CheckoutRequest) (*appordering.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appordering.OrderResponse), args.Error(1)
}

func (m *MockCheckoutService) GetByID(ctx context.Context, id uuid.UUID) (*appordering.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appordering.OrderResponse), args.Error(1)
}

func (m *MockCheckoutService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[appordering.OrderResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[appordering.OrderResponse]), args.Error(1)
}

// MockOrderShipmentService is a mock implementation of OrderShipmentService
type MockOrderShipmentService struct {
	mock.Mock
}

func (m *MockOrderShipmentService) CreateForOrder(ctx context.Context, orderID uuid.UUID) (*appshipping.ShipmentResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appshipping.ShipmentResponse), args.Error(1)
}

// MockShipmentService is a mock implementation of ShipmentService
type MockShipmentService struct {
	mock.Mock
}

func (m *MockShipmentService) Quote(ctx context.Context, req shipping.QuoteRequest) []shipping.Option {
	args := m.Called(ctx, req)
	return args.Get(0).([]shipping.Option)
}

func (m *MockShipmentService) Retry(ctx context.Context) ([]appshipping.RetryResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appshipping.RetryResult), args.Error(1)
}

// MockCredentialManager is a mock implementation of CredentialManager
type MockCredentialManager struct {
	mock.Mock
}

func (m *MockCredentialManager) Exchange(ctx context.Context, code, redirectURI string) (*appintegration.CredentialResponse, error) {
	args := m.Called(ctx, code, redirectURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.CredentialResponse), args.Error(1)
}

func (m *MockCredentialManager) Refresh(ctx context.Context, userID string) (*appintegration.CredentialResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.CredentialResponse), args.Error(1)
}

func (m *MockCredentialManager) List(ctx context.Context) ([]appintegration.CredentialResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appintegration.CredentialResponse), args.Error(1)
}

// MockPaymentWebhookProcessor is a mock implementation of PaymentWebhookProcessor
type MockPaymentWebhookProcessor struct {
	mock.Mock
}

func (m *MockPaymentWebhookProcessor) Process(ctx context.Context, notification appordering.PaymentNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockMarketplaceWebhookProcessor is a mock implementation of MarketplaceWebhookProcessor
type MockMarketplaceWebhookProcessor struct {
	mock.Mock
}

func (m *MockMarketplaceWebhookProcessor) Process(ctx context.Context, notification appintegration.MarketplaceNotification) (*appintegration.SaleResult, error) {
	args := m.Called(ctx, notification)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.SaleResult), args.Error(1)
}
