package usecase

import (
	"context"
	"time"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateDealInput defines the data required to create a pipeline deal.
type CreateDealInput struct {
	Title             string     `json:"title" validate:"required,max=255"`
	Value             float64    `json:"value" validate:"gte=0"`
	Currency          string     `json:"currency" validate:"omitempty,len=3"`
	Stage             string     `json:"stage" validate:"omitempty,oneof=lead qualified won lost"`
	CustomerID        *uuid.UUID `json:"customerId" validate:"omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate" validate:"omitempty"`
}

// UpdateDealInput mirrors CreateDealInput for edits.
type UpdateDealInput struct {
	Title             string     `json:"title" validate:"required,max=255"`
	Value             float64    `json:"value" validate:"gte=0"`
	Currency          string     `json:"currency" validate:"omitempty,len=3"`
	Stage             string     `json:"stage" validate:"required,oneof=lead qualified won lost"`
	CustomerID        *uuid.UUID `json:"customerId" validate:"omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate" validate:"omitempty"`
}

// DealUsecase exposes tenant-scoped pipeline management.
type DealUsecase interface {
	ListDeals(ctx context.Context, userID uuid.UUID) ([]*entity.Deal, error)
	GetDeal(ctx context.Context, userID, dealID uuid.UUID) (*entity.Deal, error)
	CreateDeal(ctx context.Context, userID uuid.UUID, input CreateDealInput) (*entity.Deal, error)
	UpdateDeal(ctx context.Context, userID, dealID uuid.UUID, input UpdateDealInput) (*entity.Deal, error)
	DeleteDeal(ctx context.Context, userID, dealID uuid.UUID) error
}
