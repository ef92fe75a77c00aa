package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		Street:  "Av. Paulista",
		Number:  "1000",
		City:    "Sao Paulo",
		State:   "SP",
		ZipCode: "01310-100",
	}
}

func TestNewOrder(t *testing.T) {
	items := []OrderItem{
		{ProductID: uuid.New(), ProductName: "Mug", Quantity: 2, UnitPrice: decimal.NewFromFloat(25.50)},
		{ProductID: uuid.New(), ProductName: "Shirt", Quantity: 1, UnitPrice: decimal.NewFromFloat(89.90)},
	}

	order, err := NewOrder("Ana", "ana@example.com", "+5511999990000", validAddress(), items)
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(140.90)))
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.NotEqual(t, uuid.Nil, item.ID)
	}
}

func TestNewOrderValidation(t *testing.T) {
	item := OrderItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)}

	t.Run("requires buyer email", func(t *testing.T) {
		_, err := NewOrder("Ana", "", "", validAddress(), []OrderItem{item})
		assert.Error(t, err)
	})

	t.Run("requires items", func(t *testing.T) {
		_, err := NewOrder("Ana", "ana@example.com", "", validAddress(), nil)
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		bad := item
		bad.Quantity = 0
		_, err := NewOrder("Ana", "ana@example.com", "", validAddress(), []OrderItem{bad})
		assert.Error(t, err)
	})

	t.Run("requires zip code", func(t *testing.T) {
		addr := validAddress()
		addr.ZipCode = ""
		_, err := NewOrder("Ana", "ana@example.com", "", addr, []OrderItem{item})
		assert.Error(t, err)
	})
}

func TestApplyPaymentStatus(t *testing.T) {
	item := OrderItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)}
	order, err := NewOrder("Ana", "ana@example.com", "", validAddress(), []OrderItem{item})
	require.NoError(t, err)

	changed := order.ApplyPaymentStatus("12345", "approved")
	assert.True(t, changed)
	assert.Equal(t, OrderStatusProcessing, order.Status)
	assert.Equal(t, "approved", order.PaymentStatus)
	assert.Equal(t, "12345", order.PaymentID)

	// Replaying the same notification leaves the order unchanged
	changed = order.ApplyPaymentStatus("12345", "approved")
	assert.False(t, changed)
	assert.Equal(t, OrderStatusProcessing, order.Status)
}

func TestSetShipment(t *testing.T) {
	item := OrderItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)}
	order, err := NewOrder("Ana", "ana@example.com", "", validAddress(), []OrderItem{item})
	require.NoError(t, err)
	order.ApplyPaymentStatus("12345", "approved")

	assert.False(t, order.HasTracking())
	order.SetShipment("shp-1", "TRK123BR")
	assert.True(t, order.HasTracking())
	assert.Equal(t, OrderStatusShipped, order.Status)
}
