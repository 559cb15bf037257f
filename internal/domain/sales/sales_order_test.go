package sales_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/domain/sales"
)

var orderedAt = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func lines() []sales.OrderLine {
	return []sales.OrderLine{
		{ProductID: "P-001", Quantity: 10, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: "P-002", Quantity: 3, UnitPrice: decimal.RequireFromString("49.50")},
		{ProductID: "P-001", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
	}
}

func TestNewSalesOrder_ComputesTotal(t *testing.T) {
	order, err := sales.NewSalesOrder("CUST-1000", lines(), orderedAt)

	require.NoError(t, err)
	assert.Equal(t, sales.StatusPending, order.Status())
	assert.True(t, decimal.RequireFromString("1348.50").Equal(order.Total()))
	assert.Equal(t, map[string]int{"P-001": 12, "P-002": 3}, order.Demand())
}

func TestNewSalesOrder_Validation(t *testing.T) {
	_, err := sales.NewSalesOrder("", lines(), orderedAt)
	assert.Error(t, err)

	_, err = sales.NewSalesOrder("CUST-1", nil, orderedAt)
	assert.Error(t, err)

	_, err = sales.NewSalesOrder("CUST-1", []sales.OrderLine{{ProductID: "P-001", Quantity: 0, UnitPrice: decimal.NewFromInt(1)}}, orderedAt)
	assert.Error(t, err)

	_, err = sales.NewSalesOrder("CUST-1", []sales.OrderLine{{ProductID: "P-001", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, orderedAt)
	assert.Error(t, err)
}

func TestTotalFixedAtCreation(t *testing.T) {
	// Arrange
	input := lines()
	order, err := sales.NewSalesOrder("CUST-1000", input, orderedAt)
	require.NoError(t, err)
	before := order.Total()

	// Act
	input[0].Quantity = 999
	require.NoError(t, order.Confirm())
	require.NoError(t, order.MarkReadyToShip())
	require.NoError(t, order.Ship(orderedAt.AddDate(0, 0, 1)))

	// Assert
	assert.True(t, before.Equal(order.Total()))
	assert.Equal(t, 10, order.Lines()[0].Quantity)
}

func TestFullLifecycle(t *testing.T) {
	order, err := sales.NewSalesOrder("CUST-1000", lines(), orderedAt)
	require.NoError(t, err)

	require.NoError(t, order.Confirm())
	require.NoError(t, order.MarkInProduction())
	require.NoError(t, order.MarkReadyToShip())
	assert.True(t, order.IsActive())
	require.NoError(t, order.Ship(orderedAt.AddDate(0, 0, 5)))
	assert.False(t, order.IsActive())
	require.NoError(t, order.Deliver(orderedAt.AddDate(0, 0, 7)))

	assert.Equal(t, sales.StatusDelivered, order.Status())
	assert.Equal(t, orderedAt.AddDate(0, 0, 5), *order.ShippedAt())
	assert.Equal(t, orderedAt.AddDate(0, 0, 7), *order.DeliveredAt())
}

func TestIllegalTransitions(t *testing.T) {
	order, _ := sales.NewSalesOrder("CUST-1000", lines(), orderedAt)

	assert.Error(t, order.Ship(orderedAt))
	assert.Error(t, order.MarkReadyToShip())

	require.NoError(t, order.Confirm())
	require.NoError(t, order.MarkReadyToShip())
	require.NoError(t, order.Ship(orderedAt))
	assert.Error(t, order.Cancel())
}
