package postgres

import (
	"context"
	"time"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// authRepository implements the domain.AuthRepository interface using GORM.
type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository is the constructor for authRepository.
func NewAuthRepository(db *gorm.DB) repository.AuthRepository {
	return &authRepository{db: db}
}

// FindCredential looks up a credential by provider and provider-side user id.
func (repo *authRepository) FindCredential(ctx context.Context, provider, providerUserID string) (*entity.Credential, error) {
	var credM model.CredentialModel
	if err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&credM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential")
	}

	return toCredentialDomain(&credM), nil
}

// CreateCredential persists a new credential.
func (repo *authRepository) CreateCredential(ctx context.Context, cred *entity.Credential) error {
	credM := fromCredentialDomain(cred)

	if err := repo.db.WithContext(ctx).Create(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("credential already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	cred.ID = credM.ID
	cred.CreatedAt = credM.CreatedAt

	return nil
}

// CreateRefreshToken persists the hashed half of a new session.
func (repo *authRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := fromRefreshTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrSessionInvalid.WrapMessage("refresh token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindRefreshTokenByHash retrieves a refresh token record by its stored hash.
func (repo *authRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	token := toRefreshTokenDomain(&tokenM)
	if token.Expired(time.Now()) {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return token, nil
}

// DeleteRefreshTokenByHash removes a refresh token. Unknown hashes are not an
// error so sign-out stays idempotent.
func (repo *authRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&model.RefreshTokenModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete refresh token")
	}

	return nil
}

// CreateExchangeCode stores a hashed single-use confirmation code.
func (repo *authRepository) CreateExchangeCode(ctx context.Context, code *entity.ExchangeCode) error {
	codeM := fromExchangeCodeDomain(code)

	if err := repo.db.WithContext(ctx).Create(codeM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create exchange code")
	}

	code.ID = codeM.ID
	code.CreatedAt = codeM.CreatedAt

	return nil
}

// ConsumeExchangeCode marks the code used and returns it. The guarded UPDATE
// makes consumption atomic: of two concurrent redemptions only one sees a row
// affected, the other gets ErrExchangeCodeConsumed.
func (repo *authRepository) ConsumeExchangeCode(ctx context.Context, codeHash string) (*entity.ExchangeCode, error) {
	now := time.Now()

	res := repo.db.WithContext(ctx).
		Model(&model.ExchangeCodeModel{}).
		Where("code_hash = ? AND used_at IS NULL AND expires_at > ?", codeHash, now).
		Update("used_at", now)
	if res.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(res.Error, "failed to consume exchange code")
	}

	if res.RowsAffected == 0 {
		// Distinguish an unknown code from one that is spent or expired.
		var codeM model.ExchangeCodeModel
		if err := repo.db.WithContext(ctx).
			Where("code_hash = ?", codeHash).
			First(&codeM).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repository.ErrExchangeCodeNotFound
			}

			return nil, errors.WithStack(err)
		}

		return nil, repository.ErrExchangeCodeConsumed
	}

	var codeM model.ExchangeCodeModel
	if err := repo.db.WithContext(ctx).
		Where("code_hash = ?", codeHash).
		First(&codeM).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return toExchangeCodeDomain(&codeM), nil
}

// --- Mapper Functions ---

func toCredentialDomain(data *model.CredentialModel) *entity.Credential {
	if data == nil {
		return nil
	}

	return &entity.Credential{
		ID:             data.ID,
		UserID:         data.UserID,
		Provider:       data.Provider,
		ProviderUserID: data.ProviderUserID,
		PasswordHash:   data.PasswordHash,
		CreatedAt:      data.CreatedAt,
	}
}

func fromCredentialDomain(data *entity.Credential) *model.CredentialModel {
	if data == nil {
		return nil
	}

	return &model.CredentialModel{
		ID:             data.ID,
		UserID:         data.UserID,
		Provider:       data.Provider,
		ProviderUserID: data.ProviderUserID,
		PasswordHash:   data.PasswordHash,
	}
}

func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	return &model.RefreshTokenModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
	}
}

func toExchangeCodeDomain(data *model.ExchangeCodeModel) *entity.ExchangeCode {
	if data == nil {
		return nil
	}

	return &entity.ExchangeCode{
		ID:        data.ID,
		UserID:    data.UserID,
		CodeHash:  data.CodeHash,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
		CreatedAt: data.CreatedAt,
	}
}

func fromExchangeCodeDomain(data *entity.ExchangeCode) *model.ExchangeCodeModel {
	if data == nil {
		return nil
	}

	return &model.ExchangeCodeModel{
		ID:        data.ID,
		UserID:    data.UserID,
		CodeHash:  data.CodeHash,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
	}
}
