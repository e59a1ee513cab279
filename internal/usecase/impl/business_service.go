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

// businessService implements the BusinessUsecase interface.
type businessService struct {
	businessRepo repository.BusinessRepository
	userRepo     repository.UserRepository
	validate     *validator.Validate
	logger       *slog.Logger
}

// BusinessServiceParams holds dependencies for BusinessService, injected by Fx.
type BusinessServiceParams struct {
	fx.In

	BusinessRepo repository.BusinessRepository
	UserRepo     repository.UserRepository
	Logger       *slog.Logger
}

// NewBusinessService is the constructor for businessService.
func NewBusinessService(params BusinessServiceParams) usecase.BusinessUsecase {
	return &businessService{
		businessRepo: params.BusinessRepo,
		userRepo:     params.UserRepo,
		validate:     newValidator(),
		logger:       params.Logger,
	}
}

func (srv *businessService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetOrCreateBusiness returns the caller's business, provisioning a default
// one on first touch. Two concurrent first-requests race on the unique index;
// the loser re-reads and returns the winner's row.
func (srv *businessService) GetOrCreateBusiness(ctx context.Context, userID uuid.UUID) (*entity.Business, error) {
	if userID == uuid.Nil {
		return nil, domainerrors.ErrUnauthorized
	}

	business, err := srv.businessRepo.FindByUserID(ctx, userID)
	if err == nil {
		return business, nil
	}
	if !errors.Is(err, repository.ErrBusinessNotFound) {
		return nil, errors.Wrap(err, "failed to find business")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}

		return nil, errors.Wrap(err, "failed to load user for provisioning")
	}

	business = buildDefaultBusiness(user, "", "", "", "")
	if createErr := srv.businessRepo.Create(ctx, business); createErr != nil {
		if errors.Is(createErr, repository.ErrBusinessExists) {
			// Lost the provisioning race; the winner's row is authoritative.
			return srv.businessRepo.FindByUserID(ctx, userID)
		}

		srv.log(ctx).Error("Business provisioning failed", slog.Any("userID", userID), slog.Any("error", createErr))

		return nil, domainerrors.ErrBusinessProvisionFailed
	}

	srv.log(ctx).Info("Business provisioned", slog.Any("userID", userID), slog.Any("businessID", business.ID))

	return business, nil
}

// UpdateBusiness edits the caller's own business profile.
func (srv *businessService) UpdateBusiness(ctx context.Context, userID uuid.UUID, input usecase.UpdateBusinessInput) (*entity.Business, error) {
	if userID == uuid.Nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	business, err := srv.businessRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, domainerrors.ErrBusinessNotFound
		}

		return nil, errors.Wrap(err, "failed to find business")
	}

	business.Name = input.Name
	business.Industry = entity.Industry(input.Industry)
	business.TeamSize = entity.TeamSize(input.TeamSize)
	business.Country = input.Country

	if err := srv.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}

	return business, nil
}

// buildDefaultBusiness assembles a tenant record from signup fields, filling
// gaps the same way first-touch provisioning does: name from the user's
// display name, sector "other", smallest team bucket, default country.
func buildDefaultBusiness(user *entity.User, name, industry, teamSize, country string) *entity.Business {
	if strings.TrimSpace(name) == "" {
		if display := user.DisplayName(); display != "" {
			name = display + "'s Business"
		} else {
			name = "My Business"
		}
	}

	industryValue := entity.Industry(industry)
	if !industryValue.IsValid() {
		industryValue = entity.IndustryOther
	}

	teamSizeValue := entity.TeamSize(teamSize)
	if !teamSizeValue.IsValid() {
		teamSizeValue = entity.TeamSizeMicro
	}

	if strings.TrimSpace(country) == "" {
		country = entity.DefaultCountry
	}

	return &entity.Business{
		UserID:   user.ID,
		Name:     name,
		Industry: industryValue,
		TeamSize: teamSizeValue,
		Country:  country,
	}
}
