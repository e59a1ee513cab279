package postgres

import (
	"context"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ticketRepository implements the domain.TicketRepository interface using GORM.
type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository is the constructor for ticketRepository.
func NewTicketRepository(db *gorm.DB) repository.TicketRepository {
	return &ticketRepository{db: db}
}

// ListByBusiness returns all tickets of a tenant, newest first, with the
// linked customer preloaded.
func (repo *ticketRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Ticket, error) {
	var ticketModels []*model.TicketModel
	if err := repo.db.WithContext(ctx).
		Preload("Customer").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&ticketModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tickets")
	}

	tickets := make([]*entity.Ticket, 0, len(ticketModels))
	for _, ticketM := range ticketModels {
		tickets = append(tickets, toTicketDomain(ticketM))
	}

	return tickets, nil
}

// ListByCustomer returns the tickets linked to one customer, newest first.
func (repo *ticketRepository) ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]*entity.Ticket, error) {
	var ticketModels []*model.TicketModel
	if err := repo.db.WithContext(ctx).
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Order("created_at DESC").
		Find(&ticketModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tickets by customer")
	}

	tickets := make([]*entity.Ticket, 0, len(ticketModels))
	for _, ticketM := range ticketModels {
		tickets = append(tickets, toTicketDomain(ticketM))
	}

	return tickets, nil
}

// FindByID retrieves one ticket within the tenant, customer preloaded.
func (repo *ticketRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Ticket, error) {
	var ticketM model.TicketModel
	if err := repo.db.WithContext(ctx).
		Preload("Customer").
		Where("business_id = ? AND id = ?", businessID, id).
		First(&ticketM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTicketNotFound
		}

		return nil, errors.Wrap(err, "failed to find ticket by id")
	}

	return toTicketDomain(&ticketM), nil
}

// Create persists a new ticket.
func (repo *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	ticketM := fromTicketDomain(ticket)

	if err := repo.db.WithContext(ctx).Create(ticketM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCustomerNotFound.WrapMessage("invalid customer reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required ticket information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create ticket")
	}

	ticket.ID = ticketM.ID
	ticket.CreatedAt = ticketM.CreatedAt
	ticket.UpdatedAt = ticketM.UpdatedAt

	return nil
}

// Update modifies an existing ticket within the tenant.
func (repo *ticketRepository) Update(ctx context.Context, ticket *entity.Ticket) error {
	ticketM := fromTicketDomain(ticket)

	res := repo.db.WithContext(ctx).
		Model(&model.TicketModel{}).
		Where("id = ? AND business_id = ?", ticket.ID, ticket.BusinessID).
		Updates(map[string]any{
			"customer_id": ticketM.CustomerID,
			"title":       ticketM.Title,
			"description": ticketM.Description,
			"status":      ticketM.Status,
			"priority":    ticketM.Priority,
		})
	if res.Error != nil {
		if isForeignKeyConstraintViolation(res.Error) {
			return domainerrors.ErrCustomerNotFound.WrapMessage("invalid customer reference")
		}

		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update ticket")
	}
	if res.RowsAffected == 0 {
		return repository.ErrTicketNotFound
	}

	return nil
}

// Delete removes a ticket within the tenant.
func (repo *ticketRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&model.TicketModel{})
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete ticket")
	}
	if res.RowsAffected == 0 {
		return repository.ErrTicketNotFound
	}

	return nil
}

// CountActiveByBusiness counts tickets whose status is not closed.
func (repo *ticketRepository) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.TicketModel{}).
		Where("business_id = ? AND status <> ?", businessID, entity.TicketStatusClosed.String()).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count active tickets")
	}

	return count, nil
}

// --- Mapper Functions ---

func toTicketDomain(data *model.TicketModel) *entity.Ticket {
	if data == nil {
		return nil
	}

	return &entity.Ticket{
		ID:          data.ID,
		BusinessID:  data.BusinessID,
		CustomerID:  data.CustomerID,
		Title:       data.Title,
		Description: data.Description,
		Status:      entity.TicketStatus(data.Status),
		Priority:    entity.TicketPriority(data.Priority),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
		Customer:    toCustomerDomain(data.Customer),
	}
}

func fromTicketDomain(data *entity.Ticket) *model.TicketModel {
	if data == nil {
		return nil
	}

	return &model.TicketModel{
		ID:          data.ID,
		BusinessID:  data.BusinessID,
		CustomerID:  data.CustomerID,
		Title:       data.Title,
		Description: data.Description,
		Status:      data.Status.String(),
		Priority:    data.Priority.String(),
	}
}
