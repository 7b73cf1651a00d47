package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	statuses := []OrderStatus{OrderStatusPending, OrderStatusAccepted, OrderStatusCompleted, OrderStatusCancelled}
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusAccepted}:   true,
		{OrderStatusPending, OrderStatusCancelled}:  true,
		{OrderStatusAccepted, OrderStatusCompleted}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, allowed[[2]OrderStatus{from, to}], CanTransition(from, to))
			})
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusAccepted.IsTerminal())
}

func TestAllowedSources(t *testing.T) {
	assert.ElementsMatch(t, []OrderStatus{OrderStatusPending}, AllowedSources(OrderStatusAccepted))
	assert.ElementsMatch(t, []OrderStatus{OrderStatusAccepted}, AllowedSources(OrderStatusCompleted))
	assert.ElementsMatch(t, []OrderStatus{OrderStatusPending}, AllowedSources(OrderStatusCancelled))
	assert.Empty(t, AllowedSources(OrderStatusPending))
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("accepted")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusAccepted, s)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestNewOrder_TotalIsSnapshot(t *testing.T) {
	items := []OrderItem{
		{ID: uuid.New(), Name: "Burger", Price: decimal.NewFromInt(150), Quantity: 1},
		{ID: uuid.New(), Name: "Shake", Price: decimal.RequireFromString("75.50"), Quantity: 2},
	}
	order := NewOrder(5, items, nil)

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(301)))
	assert.Equal(t, 3, order.ItemCount())

	items[0].Price = decimal.NewFromInt(1000)
	assert.True(t, order.Total.Equal(OrderTotal(order.Items)))
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(150)))
}

func TestDashboardStats_ApplyTransition(t *testing.T) {
	stats := DashboardStats{PendingOrders: 2, InProgressOrders: 1, CompletedOrders: 4}

	stats.ApplyTransition(OrderStatusPending, OrderStatusAccepted)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 2, stats.InProgressOrders)

	stats.ApplyTransition(OrderStatusAccepted, OrderStatusCompleted)
	assert.Equal(t, 1, stats.InProgressOrders)
	assert.Equal(t, 5, stats.CompletedOrders)

	stats.ApplyTransition(OrderStatusPending, OrderStatusCancelled)
	assert.Equal(t, 0, stats.PendingOrders)
	assert.Equal(t, 1, stats.InProgressOrders)
	assert.Equal(t, 5, stats.CompletedOrders)

	stats.ApplyTransition(OrderStatusPending, OrderStatusCancelled)
	assert.Equal(t, 0, stats.PendingOrders, "counters never go negative")
}
