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

// dealRepository implements the domain.DealRepository interface using GORM.
type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository is the constructor for dealRepository.
func NewDealRepository(db *gorm.DB) repository.DealRepository {
	return &dealRepository{db: db}
}

// ListByBusiness returns all deals of a tenant, newest first, with the linked
// customer preloaded for pipeline display.
func (repo *dealRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Deal, error) {
	var dealModels []*model.DealModel
	if err := repo.db.WithContext(ctx).
		Preload("Customer").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&dealModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list deals")
	}

	deals := make([]*entity.Deal, 0, len(dealModels))
	for _, dealM := range dealModels {
		deals = append(deals, toDealDomain(dealM))
	}

	return deals, nil
}

// ListByCustomer returns the deals linked to one customer, newest first.
func (repo *dealRepository) ListByCustomer(ctx context.Context, businessID, customerID uuid.UUID) ([]*entity.Deal, error) {
	var dealModels []*model.DealModel
	if err := repo.db.WithContext(ctx).
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Order("created_at DESC").
		Find(&dealModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list deals by customer")
	}

	deals := make([]*entity.Deal, 0, len(dealModels))
	for _, dealM := range dealModels {
		deals = append(deals, toDealDomain(dealM))
	}

	return deals, nil
}

// FindByID retrieves one deal within the tenant, customer preloaded.
func (repo *dealRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Deal, error) {
	var dealM model.DealModel
	if err := repo.db.WithContext(ctx).
		Preload("Customer").
		Where("business_id = ? AND id = ?", businessID, id).
		First(&dealM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDealNotFound
		}

		return nil, errors.Wrap(err, "failed to find deal by id")
	}

	return toDealDomain(&dealM), nil
}

// Create persists a new deal.
func (repo *dealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	dealM := fromDealDomain(deal)

	if err := repo.db.WithContext(ctx).Create(dealM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCustomerNotFound.WrapMessage("invalid customer reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required deal information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create deal")
	}

	deal.ID = dealM.ID
	deal.CreatedAt = dealM.CreatedAt
	deal.UpdatedAt = dealM.UpdatedAt

	return nil
}

// Update modifies an existing deal within the tenant.
func (repo *dealRepository) Update(ctx context.Context, deal *entity.Deal) error {
	dealM := fromDealDomain(deal)

	res := repo.db.WithContext(ctx).
		Model(&model.DealModel{}).
		Where("id = ? AND business_id = ?", deal.ID, deal.BusinessID).
		Updates(map[string]any{
			"customer_id":         dealM.CustomerID,
			"title":               dealM.Title,
			"value":               dealM.Value,
			"currency":            dealM.Currency,
			"stage":               dealM.Stage,
			"expected_close_date": dealM.ExpectedCloseDate,
		})
	if res.Error != nil {
		if isForeignKeyConstraintViolation(res.Error) {
			return domainerrors.ErrCustomerNotFound.WrapMessage("invalid customer reference")
		}

		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update deal")
	}
	if res.RowsAffected == 0 {
		return repository.ErrDealNotFound
	}

	return nil
}

// Delete removes a deal within the tenant.
func (repo *dealRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&model.DealModel{})
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete deal")
	}
	if res.RowsAffected == 0 {
		return repository.ErrDealNotFound
	}

	return nil
}

// CountByBusiness returns the number of deals in the tenant.
func (repo *dealRepository) CountByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.DealModel{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count deals")
	}

	return count, nil
}

// SumWonValueByBusiness totals the value of deals in the won stage.
func (repo *dealRepository) SumWonValueByBusiness(ctx context.Context, businessID uuid.UUID) (float64, error) {
	var total float64
	if err := repo.db.WithContext(ctx).
		Model(&model.DealModel{}).
		Select("COALESCE(SUM(value), 0)").
		Where("business_id = ? AND stage = ?", businessID, entity.DealStageWon.String()).
		Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum won deal values")
	}

	return total, nil
}

// --- Mapper Functions ---

func toDealDomain(data *model.DealModel) *entity.Deal {
	if data == nil {
		return nil
	}

	return &entity.Deal{
		ID:                data.ID,
		BusinessID:        data.BusinessID,
		CustomerID:        data.CustomerID,
		Title:             data.Title,
		Value:             data.Value,
		Currency:          data.Currency,
		Stage:             entity.DealStage(data.Stage),
		ExpectedCloseDate: data.ExpectedCloseDate,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
		Customer:          toCustomerDomain(data.Customer),
	}
}

func fromDealDomain(data *entity.Deal) *model.DealModel {
	if data == nil {
		return nil
	}

	return &model.DealModel{
		ID:                data.ID,
		BusinessID:        data.BusinessID,
		CustomerID:        data.CustomerID,
		Title:             data.Title,
		Value:             data.Value,
		Currency:          data.Currency,
		Stage:             data.Stage.String(),
		ExpectedCloseDate: data.ExpectedCloseDate,
	}
}
