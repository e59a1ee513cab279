package repository

import (
	"context"
	"errors"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDealNotFound is returned when a deal lookup misses within the tenant.
var ErrDealNotFound = errors.New("deal not found")

// DealRepository persists tenant-scoped pipeline deals.
type DealRepository interface {
	// ListByBusiness returns all deals of a tenant, newest first, with the
	// linked customer preloaded.
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Deal, error)

	// ListByCustomer returns the deals linked to one customer, newest first.
	ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]*entity.Deal, error)

	// FindByID retrieves one deal within the tenant, customer preloaded.
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Deal, error)

	// Create persists a new deal. The entity's BusinessID must be set.
	Create(ctx context.Context, deal *entity.Deal) error

	// Update modifies an existing deal within the tenant.
	Update(ctx context.Context, deal *entity.Deal) error

	// Delete removes a deal within the tenant.
	Delete(ctx context.Context, businessID, id uuid.UUID) error

	// CountByBusiness returns the number of deals in the tenant.
	CountByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)

	// SumWonValueByBusiness totals the value of deals in the won stage.
	SumWonValueByBusiness(ctx context.Context, businessID uuid.UUID) (float64, error)
}
