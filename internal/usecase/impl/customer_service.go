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

// customerService implements the CustomerUsecase interface. Tenant resolution
// goes through the business use case so the first CRM touch provisions the
// tenant lazily.
type customerService struct {
	customerRepo    repository.CustomerRepository
	businessUsecase usecase.BusinessUsecase
	validate        *validator.Validate
	logger          *slog.Logger
}

// CustomerServiceParams holds dependencies for CustomerService, injected by Fx.
type CustomerServiceParams struct {
	fx.In

	CustomerRepo    repository.CustomerRepository
	BusinessUsecase usecase.BusinessUsecase
	Logger          *slog.Logger
}

// NewCustomerService is the constructor for customerService.
func NewCustomerService(params CustomerServiceParams) usecase.CustomerUsecase {
	return &customerService{
		customerRepo:    params.CustomerRepo,
		businessUsecase: params.BusinessUsecase,
		validate:        newValidator(),
		logger:          params.Logger,
	}
}

func (srv *customerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListCustomers returns the tenant's customers, newest first.
func (srv *customerService) ListCustomers(ctx context.Context, userID uuid.UUID) ([]*entity.Customer, error) {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	return srv.customerRepo.ListByBusiness(ctx, business.ID)
}

// GetCustomer retrieves one customer within the tenant.
func (srv *customerService) GetCustomer(ctx context.Context, userID, customerID uuid.UUID) (*entity.Customer, error) {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	customer, err := srv.customerRepo.FindByID(ctx, business.ID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, domainerrors.ErrCustomerNotFound
		}

		return nil, err
	}

	return customer, nil
}

// CreateCustomer validates the input and persists a new customer stamped with
// the tenant's id.
func (srv *customerService) CreateCustomer(ctx context.Context, userID uuid.UUID, input usecase.CreateCustomerInput) (*entity.Customer, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := entity.CustomerStatus(input.Status)
	if !status.IsValid() {
		status = entity.CustomerStatusLead
	}

	customer := &entity.Customer{
		BusinessID:  business.ID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		CompanyName: input.CompanyName,
		Status:      status,
		Tags:        input.Tags,
	}

	if err := srv.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Customer created", slog.Any("customerID", customer.ID), slog.Any("businessID", business.ID))

	return customer, nil
}

// UpdateCustomer edits an existing customer within the tenant.
func (srv *customerService) UpdateCustomer(ctx context.Context, userID, customerID uuid.UUID, input usecase.UpdateCustomerInput) (*entity.Customer, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		ID:          customerID,
		BusinessID:  business.ID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		CompanyName: input.CompanyName,
		Status:      entity.CustomerStatus(input.Status),
		Tags:        input.Tags,
	}

	if err := srv.customerRepo.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, domainerrors.ErrCustomerNotFound
		}

		return nil, err
	}

	return srv.customerRepo.FindByID(ctx, business.ID, customerID)
}

// DeleteCustomer removes a customer within the tenant.
func (srv *customerService) DeleteCustomer(ctx context.Context, userID, customerID uuid.UUID) error {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return err
	}

	if err := srv.customerRepo.Delete(ctx, business.ID, customerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return domainerrors.ErrCustomerNotFound
		}

		return err
	}

	srv.log(ctx).Info("Customer deleted", slog.Any("customerID", customerID), slog.Any("businessID", business.ID))

	return nil
}
