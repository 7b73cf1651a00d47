package models

import "github.com/shopspring/decimal"

type DashboardStats struct {
	TodayEarnings    decimal.Decimal `json:"today_earnings"`
	MonthlyEarnings  decimal.Decimal `json:"monthly_earnings"`
	TotalOrders      int             `json:"total_orders"`
	ActiveTables     int             `json:"active_tables"`
	PendingOrders    int             `json:"pending_orders"`
	InProgressOrders int             `json:"in_progress_orders"`
	CompletedOrders  int             `json:"completed_orders"`
}

func clampDecrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

// ApplyTransition shifts the status counters for one order moving from -> to.
func (s *DashboardStats) ApplyTransition(from, to OrderStatus) {
	switch {
	case from == OrderStatusPending && to == OrderStatusAccepted:
		s.PendingOrders = clampDecrement(s.PendingOrders)
		s.InProgressOrders++
	case from == OrderStatusAccepted && to == OrderStatusCompleted:
		s.InProgressOrders = clampDecrement(s.InProgressOrders)
		s.CompletedOrders++
	case from == OrderStatusPending && to == OrderStatusCancelled:
		s.PendingOrders = clampDecrement(s.PendingOrders)
	}
}
