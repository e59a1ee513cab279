package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm/config"
	deliverycontext "crm/internal/delivery/context"
	"crm/internal/delivery/http/session"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthUsecase recognizes one access token and one refresh token.
type fakeAuthUsecase struct {
	usecase.AuthUsecase

	userID       uuid.UUID
	accessToken  string
	refreshToken string
	refreshed    *entity.Session
	refreshCalls int
}

func (f *fakeAuthUsecase) CurrentUser(_ context.Context, accessToken string) (*entity.User, error) {
	if accessToken == f.accessToken {
		return &entity.User{ID: f.userID}, nil
	}

	return nil, domainerrors.ErrUnauthorized
}

func (f *fakeAuthUsecase) Refresh(_ context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	f.refreshCalls++
	if refreshToken != f.refreshToken {
		return nil, domainerrors.ErrSessionInvalid
	}

	f.refreshed = &entity.Session{
		UserID:       f.userID,
		AccessToken:  "rotated-access",
		RefreshToken: "rotated-refresh",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}

	return &usecase.AuthOutput{User: &entity.User{ID: f.userID}, Session: f.refreshed}, nil
}

type guardFixtures struct {
	auth  *fakeAuthUsecase
	guard *RouteGuard
}

func createTestGuard(t *testing.T) *guardFixtures {
	t.Helper()

	auth := &fakeAuthUsecase{
		userID:       uuid.New(),
		accessToken:  "live-access",
		refreshToken: "live-refresh",
	}
	store := session.NewStore(&config.Config{Auth: &config.AuthConfig{}})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &guardFixtures{
		auth:  auth,
		guard: NewRouteGuard(auth, store, logger),
	}
}

func runGuard(t *testing.T, guard *RouteGuard, req *http.Request) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	nextCalled := false
	err := guard.Guard(func(echo.Context) error {
		nextCalled = true

		return nil
	})(c)
	require.NoError(t, err)

	return c, rec, nextCalled
}

func TestRouteGuard_DashboardRedirectsAnonymous(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)
	req := httptest.NewRequest(http.MethodGet, "/dashboard/customers", nil)

	_, rec, nextCalled := runGuard(t, fixtures.guard, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard%2Fcustomers", rec.Header().Get("Location"))
}

func TestRouteGuard_DashboardAllowsAuthenticated(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "live-access"})

	c, _, nextCalled := runGuard(t, fixtures.guard, req)

	assert.True(t, nextCalled)
	userID, ok := deliverycontext.GetUserID(c)
	require.True(t, ok)
	assert.Equal(t, fixtures.auth.userID, userID)
	require.NotNil(t, deliverycontext.GetSession(c))
}

func TestRouteGuard_LoginBouncesAuthenticated(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "live-access"})

	_, rec, nextCalled := runGuard(t, fixtures.guard, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestRouteGuard_LoginAllowsAnonymous(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)

	_, rec, nextCalled := runGuard(t, fixtures.guard, req)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouteGuard_RefreshesExpiredAccessToken(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "stale-access"})
	req.AddCookie(&http.Cookie{Name: session.RefreshTokenCookie, Value: "live-refresh"})

	c, rec, nextCalled := runGuard(t, fixtures.guard, req)

	assert.True(t, nextCalled)
	assert.Equal(t, 1, fixtures.auth.refreshCalls)

	current := deliverycontext.GetSession(c)
	require.NotNil(t, current)
	assert.Equal(t, "rotated-access", current.AccessToken)

	// The rotated pair lands in fresh cookies.
	values := map[string]string{}
	for _, cookie := range rec.Result().Cookies() {
		values[cookie.Name] = cookie.Value
	}
	assert.Equal(t, "rotated-access", values[session.AccessTokenCookie])
	assert.Equal(t, "rotated-refresh", values[session.RefreshTokenCookie])
}

func TestRouteGuard_DeadSessionClearsCookies(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "stale-access"})
	req.AddCookie(&http.Cookie{Name: session.RefreshTokenCookie, Value: "revoked"})

	_, rec, nextCalled := runGuard(t, fixtures.guard, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	for _, cookie := range rec.Result().Cookies() {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestRouteGuard_SkipsCallbackPath(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)
	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "live-access"})

	c, _, nextCalled := runGuard(t, fixtures.guard, req)

	assert.True(t, nextCalled)
	_, ok := deliverycontext.GetUserID(c)
	assert.False(t, ok, "guard must not touch the callback request")
}

func TestRouteGuard_RequireAuth(t *testing.T) {
	t.Parallel()

	fixtures := createTestGuard(t)

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/customers", nil), rec)

	err := fixtures.guard.RequireAuth(func(echo.Context) error { return nil })(c)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	deliverycontext.SetUserID(c, uuid.New())
	err = fixtures.guard.RequireAuth(func(echo.Context) error { return nil })(c)
	require.NoError(t, err)
}
