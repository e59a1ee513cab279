package impl

import (
	"context"
	"log/slog"

	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// metricsService implements the MetricsUsecase interface.
type metricsService struct {
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	dealRepo     repository.DealRepository
	ticketRepo   repository.TicketRepository
	logger       *slog.Logger
}

// MetricsServiceParams holds dependencies for MetricsService, injected by Fx.
type MetricsServiceParams struct {
	fx.In

	BusinessRepo repository.BusinessRepository
	CustomerRepo repository.CustomerRepository
	DealRepo     repository.DealRepository
	TicketRepo   repository.TicketRepository
	Logger       *slog.Logger
}

// NewMetricsService is the constructor for metricsService.
func NewMetricsService(params MetricsServiceParams) usecase.MetricsUsecase {
	return &metricsService{
		businessRepo: params.BusinessRepo,
		customerRepo: params.CustomerRepo,
		dealRepo:     params.DealRepo,
		ticketRepo:   params.TicketRepo,
		logger:       params.Logger,
	}
}

// GetDashboardMetrics computes the tenant's overview counters. A user whose
// business is not yet provisioned gets zeroes rather than an error.
func (srv *metricsService) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (*usecase.DashboardMetrics, error) {
	if userID == uuid.Nil {
		return nil, domainerrors.ErrUnauthorized
	}

	business, err := srv.businessRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return &usecase.DashboardMetrics{}, nil
		}

		return nil, errors.Wrap(err, "failed to find business")
	}

	metrics := &usecase.DashboardMetrics{}

	if metrics.TotalCustomers, err = srv.customerRepo.CountByBusiness(ctx, business.ID); err != nil {
		return nil, err
	}
	if metrics.TotalDeals, err = srv.dealRepo.CountByBusiness(ctx, business.ID); err != nil {
		return nil, err
	}
	if metrics.TotalRevenue, err = srv.dealRepo.SumWonValueByBusiness(ctx, business.ID); err != nil {
		return nil, err
	}
	if metrics.ActiveTickets, err = srv.ticketRepo.CountActiveByBusiness(ctx, business.ID); err != nil {
		return nil, err
	}

	return metrics, nil
}
