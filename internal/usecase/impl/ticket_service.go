package impl

import (
	"context"
	"log/slog"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ticketService implements the TicketUsecase interface.
type ticketService struct {
	ticketRepo      repository.TicketRepository
	customerRepo    repository.CustomerRepository
	businessUsecase usecase.BusinessUsecase
	validate        *validator.Validate
	logger          *slog.Logger
}

// TicketServiceParams holds dependencies for TicketService, injected by Fx.
type TicketServiceParams struct {
	fx.In

	TicketRepo      repository.TicketRepository
	CustomerRepo    repository.CustomerRepository
	BusinessUsecase usecase.BusinessUsecase
	Logger          *slog.Logger
}

// NewTicketService is the constructor for ticketService.
func NewTicketService(params TicketServiceParams) usecase.TicketUsecase {
	return &ticketService{
		ticketRepo:      params.TicketRepo,
		customerRepo:    params.CustomerRepo,
		businessUsecase: params.BusinessUsecase,
		validate:        newValidator(),
		logger:          params.Logger,
	}
}

func (srv *ticketService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListTickets returns the tenant's tickets, newest first, customers preloaded.
func (srv *ticketService) ListTickets(ctx context.Context, userID uuid.UUID) ([]*entity.Ticket, error) {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	return srv.ticketRepo.ListByBusiness(ctx, business.ID)
}

// GetTicket retrieves one ticket within the tenant.
func (srv *ticketService) GetTicket(ctx context.Context, userID, ticketID uuid.UUID) (*entity.Ticket, error) {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	ticket, err := srv.ticketRepo.FindByID(ctx, business.ID, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, domainerrors.ErrTicketNotFound
		}

		return nil, err
	}

	return ticket, nil
}

// CreateTicket validates the input and persists a new ticket.
func (srv *ticketService) CreateTicket(ctx context.Context, userID uuid.UUID, input usecase.CreateTicketInput) (*entity.Ticket, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := srv.checkCustomerLink(ctx, business.ID, input.CustomerID); err != nil {
		return nil, err
	}

	status := entity.TicketStatus(input.Status)
	if !status.IsValid() {
		status = entity.TicketStatusOpen
	}
	priority := entity.TicketPriority(input.Priority)
	if !priority.IsValid() {
		priority = entity.TicketPriorityMedium
	}

	ticket := &entity.Ticket{
		BusinessID:  business.ID,
		CustomerID:  input.CustomerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
	}

	if err := srv.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Ticket created", slog.Any("ticketID", ticket.ID), slog.Any("businessID", business.ID))

	return ticket, nil
}

// UpdateTicket edits an existing ticket within the tenant.
func (srv *ticketService) UpdateTicket(ctx context.Context, userID, ticketID uuid.UUID, input usecase.UpdateTicketInput) (*entity.Ticket, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := srv.checkCustomerLink(ctx, business.ID, input.CustomerID); err != nil {
		return nil, err
	}

	ticket := &entity.Ticket{
		ID:          ticketID,
		BusinessID:  business.ID,
		CustomerID:  input.CustomerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      entity.TicketStatus(input.Status),
		Priority:    entity.TicketPriority(input.Priority),
	}

	if err := srv.ticketRepo.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, domainerrors.ErrTicketNotFound
		}

		return nil, err
	}

	return srv.ticketRepo.FindByID(ctx, business.ID, ticketID)
}

// DeleteTicket removes a ticket within the tenant.
func (srv *ticketService) DeleteTicket(ctx context.Context, userID, ticketID uuid.UUID) error {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return err
	}

	if err := srv.ticketRepo.Delete(ctx, business.ID, ticketID); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return domainerrors.ErrTicketNotFound
		}

		return err
	}

	srv.log(ctx).Info("Ticket deleted", slog.Any("ticketID", ticketID), slog.Any("businessID", business.ID))

	return nil
}

// checkCustomerLink rejects customer references outside the tenant.
func (srv *ticketService) checkCustomerLink(ctx context.Context, businessID uuid.UUID, customerID *uuid.UUID) error {
	if customerID == nil {
		return nil
	}

	if _, err := srv.customerRepo.FindByID(ctx, businessID, *customerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return domainerrors.ErrCustomerNotFound
		}

		return err
	}

	return nil
}
