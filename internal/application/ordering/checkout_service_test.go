package ordering

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/ordering"
	"github.com/shop/backend/internal/domain/shared"
)

func testAddress() ordering.Address {
	return ordering.Address{
		Street:  "Av. Paulista",
		Number:  "1000",
		City:    "Sao Paulo",
		State:   "SP",
		ZipCode: "01310-100",
	}
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(orderRepo, productRepo)

	mug, _ := catalog.NewProduct("Mug", decimal.NewFromFloat(25.50), 10)
	shirt, _ := catalog.NewProduct("Shirt", decimal.NewFromFloat(89.90), 3)

	productRepo.On("FindByIDs", mock.Anything, mock.Anything).
		Return([]catalog.Product{*mug, *shirt}, nil)
	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

	resp, err := service.Checkout(context.Background(), CheckoutRequest{
		BuyerName:  "Ana",
		BuyerEmail: "ana@example.com",
		Address:    testAddress(),
		Items: []CheckoutItem{
			{ProductID: mug.ID, Quantity: 2},
			{ProductID: shirt.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	// Prices come from the catalog: 2*25.50 + 89.90
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(140.90)))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Mug", resp.Items[0].ProductName)
	orderRepo.AssertExpectations(t)
}

func TestCheckoutRejectsUnknownProduct(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(orderRepo, productRepo)

	productRepo.On("FindByIDs", mock.Anything, mock.Anything).
		Return([]catalog.Product{}, nil)

	_, err := service.Checkout(context.Background(), CheckoutRequest{
		BuyerEmail: "ana@example.com",
		Address:    testAddress(),
		Items:      []CheckoutItem{{ProductID: uuid.New(), Quantity: 1}},
	})
	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "Save")
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(orderRepo, productRepo)

	mug, _ := catalog.NewProduct("Mug", decimal.NewFromInt(20), 1)
	productRepo.On("FindByIDs", mock.Anything, mock.Anything).
		Return([]catalog.Product{*mug}, nil)

	_, err := service.Checkout(context.Background(), CheckoutRequest{
		BuyerEmail: "ana@example.com",
		Address:    testAddress(),
		Items:      []CheckoutItem{{ProductID: mug.ID, Quantity: 5}},
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestCheckoutRejectsEmptyOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(orderRepo, productRepo)

	_, err := service.Checkout(context.Background(), CheckoutRequest{
		BuyerEmail: "ana@example.com",
		Address:    testAddress(),
	})
	require.Error(t, err)
	productRepo.AssertNotCalled(t, "FindByIDs")
}
