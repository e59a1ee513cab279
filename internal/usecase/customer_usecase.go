package usecase

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCustomerInput defines the data required to create a customer.
type CreateCustomerInput struct {
	FirstName   string   `json:"firstName" validate:"required,max=100"`
	LastName    string   `json:"lastName" validate:"required,max=100"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Phone       string   `json:"phone" validate:"omitempty,max=50"`
	CompanyName string   `json:"companyName" validate:"omitempty,max=255"`
	Status      string   `json:"status" validate:"omitempty,oneof=lead active inactive"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=50"`
}

// UpdateCustomerInput mirrors CreateCustomerInput for edits.
type UpdateCustomerInput struct {
	FirstName   string   `json:"firstName" validate:"required,max=100"`
	LastName    string   `json:"lastName" validate:"required,max=100"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Phone       string   `json:"phone" validate:"omitempty,max=50"`
	CompanyName string   `json:"companyName" validate:"omitempty,max=255"`
	Status      string   `json:"status" validate:"required,oneof=lead active inactive"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=50"`
}

// CustomerUsecase exposes tenant-scoped customer management. The userID on
// every operation identifies the acting account; its business bounds all
// reads and writes.
type CustomerUsecase interface {
	ListCustomers(ctx context.Context, userID uuid.UUID) ([]*entity.Customer, error)
	GetCustomer(ctx context.Context, userID, customerID uuid.UUID) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, userID uuid.UUID, input CreateCustomerInput) (*entity.Customer, error)
	UpdateCustomer(ctx context.Context, userID, customerID uuid.UUID, input UpdateCustomerInput) (*entity.Customer, error)
	DeleteCustomer(ctx context.Context, userID, customerID uuid.UUID) error
}
