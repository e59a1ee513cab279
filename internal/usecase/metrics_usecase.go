package usecase

import (
	"context"

	"github.com/google/uuid"
)

// DashboardMetrics is the overview card data for a tenant's dashboard.
type DashboardMetrics struct {
	TotalCustomers int64   `json:"totalCustomers"`
	TotalDeals     int64   `json:"totalDeals"`
	TotalRevenue   float64 `json:"totalRevenue"` // Sum of won deal values.
	ActiveTickets  int64   `json:"activeTickets"`
}

// MetricsUsecase aggregates dashboard counters.
type MetricsUsecase interface {
	// GetDashboardMetrics computes the tenant's counters. A user without a
	// business gets zeroes, not an error.
	GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*DashboardMetrics, error)
}
