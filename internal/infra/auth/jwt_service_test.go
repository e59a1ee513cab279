package auth

import (
	"testing"
	"time"

	"crm/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTokenService builds the service directly so tests can use TTLs the
// config normalization would reject, such as negative ones.
func newTestTokenService(t *testing.T, accessTTL time.Duration) *jwtService {
	t.Helper()

	return &jwtService{
		accessSecret:  "test-access-secret",
		refreshSecret: "test-refresh-secret",
		accessTTL:     accessTTL,
		refreshTTL:    time.Hour,
	}
}

func TestJWTService_RequiresSecrets(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{}}

	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)
	userID := uuid.New()

	access, refresh, err := svc.GenerateTokens(userID)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	gotAccess, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, gotAccess)

	gotRefresh, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, gotRefresh)
}

func TestJWTService_RejectsCrossTypeTokens(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	access, refresh, err := svc.GenerateTokens(uuid.New())
	require.NoError(t, err)

	// An access token must not pass as a refresh token, and vice versa.
	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	access, _, err := svc.GenerateTokens(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)

	_, err := svc.ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
