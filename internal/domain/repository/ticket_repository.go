package repository

import (
	"context"
	"errors"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTicketNotFound is returned when a ticket lookup misses within the tenant.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepository persists tenant-scoped support tickets.
type TicketRepository interface {
	// ListByBusiness returns all tickets of a tenant, newest first, with the
	// linked customer preloaded.
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Ticket, error)

	// ListByCustomer returns the tickets linked to one customer, newest first.
	ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]*entity.Ticket, error)

	// FindByID retrieves one ticket within the tenant, customer preloaded.
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Ticket, error)

	// Create persists a new ticket. The entity's BusinessID must be set.
	Create(ctx context.Context, ticket *entity.Ticket) error

	// Update modifies an existing ticket within the tenant.
	Update(ctx context.Context, ticket *entity.Ticket) error

	// Delete removes a ticket within the tenant.
	Delete(ctx context.Context, businessID, id uuid.UUID) error

	// CountActiveByBusiness counts tickets whose status is not closed.
	CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}
