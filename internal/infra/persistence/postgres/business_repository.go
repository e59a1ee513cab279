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

// businessRepository implements the domain.BusinessRepository interface using GORM.
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository is the constructor for businessRepository.
func NewBusinessRepository(db *gorm.DB) repository.BusinessRepository {
	return &businessRepository{db: db}
}

// FindByUserID retrieves the business owned by the given user.
func (repo *businessRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Business, error) {
	var businessM model.BusinessModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&businessM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBusinessNotFound
		}

		return nil, errors.Wrap(err, "failed to find business by user id")
	}

	return toBusinessDomain(&businessM), nil
}

// Create persists a new business. The unique index on user_id turns a
// concurrent double-insert into ErrBusinessExists for the loser.
func (repo *businessRepository) Create(ctx context.Context, business *entity.Business) error {
	businessM := fromBusinessDomain(business)

	if err := repo.db.WithContext(ctx).Create(businessM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrBusinessExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required business information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create business")
	}

	business.ID = businessM.ID
	business.CreatedAt = businessM.CreatedAt
	business.UpdatedAt = businessM.UpdatedAt

	return nil
}

// Update modifies an existing business.
func (repo *businessRepository) Update(ctx context.Context, business *entity.Business) error {
	businessM := fromBusinessDomain(business)

	res := repo.db.WithContext(ctx).
		Model(&model.BusinessModel{}).
		Where("id = ? AND user_id = ?", business.ID, business.UserID).
		Updates(map[string]any{
			"name":      businessM.Name,
			"industry":  businessM.Industry,
			"team_size": businessM.TeamSize,
			"country":   businessM.Country,
		})
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update business")
	}
	if res.RowsAffected == 0 {
		return repository.ErrBusinessNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toBusinessDomain(data *model.BusinessModel) *entity.Business {
	if data == nil {
		return nil
	}

	return &entity.Business{
		ID:        data.ID,
		UserID:    data.UserID,
		Name:      data.Name,
		Industry:  entity.Industry(data.Industry),
		TeamSize:  entity.TeamSize(data.TeamSize),
		Country:   data.Country,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromBusinessDomain(data *entity.Business) *model.BusinessModel {
	if data == nil {
		return nil
	}

	return &model.BusinessModel{
		ID:       data.ID,
		UserID:   data.UserID,
		Name:     data.Name,
		Industry: data.Industry.String(),
		TeamSize: data.TeamSize.String(),
		Country:  data.Country,
	}
}
