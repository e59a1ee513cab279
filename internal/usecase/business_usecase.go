package usecase

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateBusinessInput defines the editable fields of a tenant's profile.
type UpdateBusinessInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Industry string `json:"industry" validate:"required,oneof=retail tech services education healthcare other"`
	TeamSize string `json:"teamSize" validate:"required,oneof=1-5 6-20 21-50 50+"`
	Country  string `json:"country" validate:"required,max=100"`
}

// BusinessUsecase manages the tenant record behind every CRM operation.
type BusinessUsecase interface {
	// GetOrCreateBusiness returns the caller's business, provisioning a
	// default one on first touch. Safe under concurrent first-requests.
	GetOrCreateBusiness(ctx context.Context, userID uuid.UUID) (*entity.Business, error)

	// UpdateBusiness edits the caller's own business profile.
	UpdateBusiness(ctx context.Context, userID uuid.UUID, input UpdateBusinessInput) (*entity.Business, error)
}
