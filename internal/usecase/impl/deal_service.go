package impl

import (
	"context"
	"log/slog"
	"strings"

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

const defaultDealCurrency = "NGN"

// dealService implements the DealUsecase interface.
type dealService struct {
	dealRepo        repository.DealRepository
	customerRepo    repository.CustomerRepository
	businessUsecase usecase.BusinessUsecase
	validate        *validator.Validate
	logger          *slog.Logger
}

// DealServiceParams holds dependencies for DealService, injected by Fx.
type DealServiceParams struct {
	fx.In

	DealRepo        repository.DealRepository
	CustomerRepo    repository.CustomerRepository
	BusinessUsecase usecase.BusinessUsecase
	Logger          *slog.Logger
}

// NewDealService is the constructor for dealService.
func NewDealService(params DealServiceParams) usecase.DealUsecase {
	return &dealService{
		dealRepo:        params.DealRepo,
		customerRepo:    params.CustomerRepo,
		businessUsecase: params.BusinessUsecase,
		validate:        newValidator(),
		logger:          params.Logger,
	}
}

func (srv *dealService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListDeals returns the tenant's deals, newest first, customers preloaded.
func (srv *dealService) ListDeals(ctx context.Context, userID uuid.UUID) ([]*entity.Deal, error) {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	return srv.dealRepo.ListByBusiness(ctx, business.ID)
}

// GetDeal retrieves one deal within the tenant.
func (srv *dealService) GetDeal(ctx context.Context, userID, dealID uuid.UUID) (*entity.Deal, error) {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	deal, err := srv.dealRepo.FindByID(ctx, business.ID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			return nil, domainerrors.ErrDealNotFound
		}

		return nil, err
	}

	return deal, nil
}

// CreateDeal validates the input and persists a new deal. A linked customer
// must belong to the same tenant.
func (srv *dealService) CreateDeal(ctx context.Context, userID uuid.UUID, input usecase.CreateDealInput) (*entity.Deal, error) {
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

	stage := entity.DealStage(input.Stage)
	if !stage.IsValid() {
		stage = entity.DealStageLead
	}

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = defaultDealCurrency
	}

	deal := &entity.Deal{
		BusinessID:        business.ID,
		CustomerID:        input.CustomerID,
		Title:             input.Title,
		Value:             input.Value,
		Currency:          currency,
		Stage:             stage,
		ExpectedCloseDate: input.ExpectedCloseDate,
	}

	if err := srv.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Deal created", slog.Any("dealID", deal.ID), slog.Any("businessID", business.ID))

	return deal, nil
}

// UpdateDeal edits an existing deal within the tenant.
func (srv *dealService) UpdateDeal(ctx context.Context, userID, dealID uuid.UUID, input usecase.UpdateDealInput) (*entity.Deal, error) {
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

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = defaultDealCurrency
	}

	deal := &entity.Deal{
		ID:                dealID,
		BusinessID:        business.ID,
		CustomerID:        input.CustomerID,
		Title:             input.Title,
		Value:             input.Value,
		Currency:          currency,
		Stage:             entity.DealStage(input.Stage),
		ExpectedCloseDate: input.ExpectedCloseDate,
	}

	if err := srv.dealRepo.Update(ctx, deal); err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			return nil, domainerrors.ErrDealNotFound
		}

		return nil, err
	}

	return srv.dealRepo.FindByID(ctx, business.ID, dealID)
}

// DeleteDeal removes a deal within the tenant.
func (srv *dealService) DeleteDeal(ctx context.Context, userID, dealID uuid.UUID) error {
	business, err := srv.businessUsecase.GetOrCreateBusiness(ctx, userID)
	if err != nil {
		return err
	}

	if err := srv.dealRepo.Delete(ctx, business.ID, dealID); err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			return domainerrors.ErrDealNotFound
		}

		return err
	}

	srv.log(ctx).Info("Deal deleted", slog.Any("dealID", dealID), slog.Any("businessID", business.ID))

	return nil
}

// checkCustomerLink rejects customer references outside the tenant.
func (srv *dealService) checkCustomerLink(ctx context.Context, businessID uuid.UUID, customerID *uuid.UUID) error {
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
