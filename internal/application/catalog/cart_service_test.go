package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/catalog"
)

func TestCartReconcileUnchanged(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewCartService(repo)

	mug, _ := catalog.NewProduct("Mug", decimal.NewFromInt(20), 5)
	repo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*mug}, nil)

	result, err := service.Reconcile(context.Background(), []CartItem{
		{ProductID: mug.ID, Quantity: 3},
	})
	require.NoError(t, err)
	assert.False(t, result.Adjusted)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 3, result.Items[0].Quantity)
	assert.False(t, result.Items[0].Clamped)
	assert.Empty(t, result.Removed)
}

func TestCartReconcileClampsToStock(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewCartService(repo)

	mug, _ := catalog.NewProduct("Mug", decimal.NewFromInt(20), 2)
	repo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*mug}, nil)

	result, err := service.Reconcile(context.Background(), []CartItem{
		{ProductID: mug.ID, Quantity: 10},
	})
	require.NoError(t, err)
	assert.True(t, result.Adjusted)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 2, result.Items[0].Quantity)
	assert.True(t, result.Items[0].Clamped)
}

func TestCartReconcileDropsMissingProducts(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewCartService(repo)

	mug, _ := catalog.NewProduct("Mug", decimal.NewFromInt(20), 5)
	gone := uuid.New()
	repo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*mug}, nil)

	result, err := service.Reconcile(context.Background(), []CartItem{
		{ProductID: mug.ID, Quantity: 1},
		{ProductID: gone, Quantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, result.Adjusted)
	require.Len(t, result.Items, 1)
	assert.Equal(t, mug.ID, result.Items[0].ProductID)
	assert.Equal(t, []uuid.UUID{gone}, result.Removed)
}

func TestCartReconcileDropsOutOfStock(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewCartService(repo)

	sold, _ := catalog.NewProduct("Sold Out", decimal.NewFromInt(20), 0)
	repo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*sold}, nil)

	result, err := service.Reconcile(context.Background(), []CartItem{
		{ProductID: sold.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, result.Adjusted)
	assert.Empty(t, result.Items)
	assert.Equal(t, []uuid.UUID{sold.ID}, result.Removed)
}

func TestCartReconcileEmptyCart(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewCartService(repo)

	result, err := service.Reconcile(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, result.Adjusted)
	assert.Empty(t, result.Items)
	repo.AssertNotCalled(t, "FindByIDs")
}
