package repository

import (
	"context"
	"errors"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCustomerNotFound is returned when a customer lookup misses. A customer
// belonging to another tenant also surfaces as not found.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepository persists tenant-scoped customer records. Every operation
// takes the acting business id; rows outside that tenant are invisible.
type CustomerRepository interface {
	// ListByBusiness returns all customers of a tenant, newest first.
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Customer, error)

	// FindByID retrieves one customer within the tenant.
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Customer, error)

	// Create persists a new customer. The entity's BusinessID must be set.
	Create(ctx context.Context, customer *entity.Customer) error

	// Update modifies an existing customer within the tenant.
	Update(ctx context.Context, customer *entity.Customer) error

	// Delete removes a customer within the tenant.
	Delete(ctx context.Context, businessID, id uuid.UUID) error

	// CountByBusiness returns the number of customers in the tenant.
	CountByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}
