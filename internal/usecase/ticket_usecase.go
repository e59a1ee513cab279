package usecase

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTicketInput defines the data required to open a support ticket.
type CreateTicketInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"omitempty"`
	Status      string     `json:"status" validate:"omitempty,oneof=open pending resolved closed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	CustomerID  *uuid.UUID `json:"customerId" validate:"omitempty"`
}

// UpdateTicketInput mirrors CreateTicketInput for edits.
type UpdateTicketInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"omitempty"`
	Status      string     `json:"status" validate:"required,oneof=open pending resolved closed"`
	Priority    string     `json:"priority" validate:"required,oneof=low medium high urgent"`
	CustomerID  *uuid.UUID `json:"customerId" validate:"omitempty"`
}

// TicketUsecase exposes tenant-scoped support ticket management.
type TicketUsecase interface {
	ListTickets(ctx context.Context, userID uuid.UUID) ([]*entity.Ticket, error)
	GetTicket(ctx context.Context, userID, ticketID uuid.UUID) (*entity.Ticket, error)
	CreateTicket(ctx context.Context, userID uuid.UUID, input CreateTicketInput) (*entity.Ticket, error)
	UpdateTicket(ctx context.Context, userID, ticketID uuid.UUID, input UpdateTicketInput) (*entity.Ticket, error)
	DeleteTicket(ctx context.Context, userID, ticketID uuid.UUID) error
}
