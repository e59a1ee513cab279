package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenService issues and validates the JWT pair that makes up a session.
type TokenService interface {
	// GenerateTokens creates a new access/refresh token pair for a user.
	GenerateTokens(userID uuid.UUID) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken verifies an access token and returns its subject.
	ValidateAccessToken(tokenString string) (uuid.UUID, error)

	// ValidateRefreshToken verifies a refresh token and returns its subject.
	ValidateRefreshToken(tokenString string) (uuid.UUID, error)

	// AccessTokenDuration returns the configured access token lifetime.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
