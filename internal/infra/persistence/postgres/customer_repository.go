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

// customerRepository implements the domain.CustomerRepository interface using GORM.
// Every query filters on business_id so one tenant can never see another's rows.
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository is the constructor for customerRepository.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

// ListByBusiness returns all customers of a tenant, newest first.
func (repo *customerRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entity.Customer, error) {
	var customerModels []*model.CustomerModel
	if err := repo.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&customerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}

	customers := make([]*entity.Customer, 0, len(customerModels))
	for _, customerM := range customerModels {
		customers = append(customers, toCustomerDomain(customerM))
	}

	return customers, nil
}

// FindByID retrieves one customer within the tenant.
func (repo *customerRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*entity.Customer, error) {
	var customerM model.CustomerModel
	if err := repo.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&customerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by id")
	}

	return toCustomerDomain(&customerM), nil
}

// Create persists a new customer.
func (repo *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	if err := repo.db.WithContext(ctx).Create(customerM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrBusinessNotFound.WrapMessage("invalid business reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewValidationError("missing required customer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create customer")
	}

	customer.ID = customerM.ID
	customer.CreatedAt = customerM.CreatedAt
	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

// Update modifies an existing customer within the tenant.
func (repo *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	res := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ? AND business_id = ?", customer.ID, customer.BusinessID).
		Updates(map[string]any{
			"first_name":   customerM.FirstName,
			"last_name":    customerM.LastName,
			"email":        customerM.Email,
			"phone":        customerM.Phone,
			"company_name": customerM.CompanyName,
			"status":       customerM.Status,
			"tags":         customerM.Tags,
		})
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update customer")
	}
	if res.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// Delete removes a customer within the tenant.
func (repo *customerRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&model.CustomerModel{})
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete customer")
	}
	if res.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// CountByBusiness returns the number of customers in the tenant.
func (repo *customerRepository) CountByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("business_id = ?", businessID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count customers")
	}

	return count, nil
}

// --- Mapper Functions ---

func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	if data == nil {
		return nil
	}

	return &entity.Customer{
		ID:          data.ID,
		BusinessID:  data.BusinessID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		Phone:       data.Phone,
		CompanyName: data.CompanyName,
		Status:      entity.CustomerStatus(data.Status),
		Tags:        data.Tags,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromCustomerDomain(data *entity.Customer) *model.CustomerModel {
	if data == nil {
		return nil
	}

	return &model.CustomerModel{
		ID:          data.ID,
		BusinessID:  data.BusinessID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		Phone:       data.Phone,
		CompanyName: data.CompanyName,
		Status:      data.Status.String(),
		Tags:        data.Tags,
	}
}
