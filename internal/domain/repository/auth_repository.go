package repository

import (
	"context"
	"errors"

	"crm/internal/domain/entity"
)

// Domain-specific lookup failures for the auth tables. Callers branch on
// these rather than on driver errors.
var (
	ErrCredentialNotFound   = errors.New("credential not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrExchangeCodeNotFound = errors.New("exchange code not found")
	ErrExchangeCodeConsumed = errors.New("exchange code already consumed")
)

// AuthRepository persists login credentials, refresh tokens and one-time
// exchange codes.
type AuthRepository interface {
	// FindCredential looks up a credential by provider and provider-side user
	// id (the email address for the email provider).
	FindCredential(ctx context.Context, provider, providerUserID string) (*entity.Credential, error)

	// CreateCredential persists a new credential.
	CreateCredential(ctx context.Context, cred *entity.Credential) error

	// CreateRefreshToken stores the hashed half of a new session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a non-expired refresh token by its hash.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshTokenByHash removes a refresh token. Deleting an unknown
	// hash is not an error.
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error

	// CreateExchangeCode stores a hashed single-use confirmation code.
	CreateExchangeCode(ctx context.Context, code *entity.ExchangeCode) error

	// ConsumeExchangeCode atomically marks the code used and returns it.
	// Returns ErrExchangeCodeNotFound for unknown hashes and
	// ErrExchangeCodeConsumed when the code was already used or has expired.
	ConsumeExchangeCode(ctx context.Context, codeHash string) (*entity.ExchangeCode, error)
}
