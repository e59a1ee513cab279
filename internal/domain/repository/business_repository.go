package repository

import (
	"context"
	"errors"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrBusinessNotFound is returned when no business exists for a lookup.
var ErrBusinessNotFound = errors.New("business not found")

// ErrBusinessExists is returned when an insert collides with the unique index
// on the owning-user column; two concurrent first-requests can race here.
var ErrBusinessExists = errors.New("business already exists for user")

// BusinessRepository persists tenant records. Each user owns at most one
// business, enforced by a unique index on user_id.
type BusinessRepository interface {
	// FindByUserID retrieves the business owned by the given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Business, error)

	// Create persists a new business. Returns ErrBusinessExists when the
	// owning user already has one.
	Create(ctx context.Context, business *entity.Business) error

	// Update modifies an existing business.
	Update(ctx context.Context, business *entity.Business) error
}
