package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm/config"
	"crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(&config.Config{
		Auth: &config.AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			CookieSecure:    true,
		},
	})
}

func newTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec), rec
}

func TestStore_WriteSetsBothCookies(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/", nil))

	store.Write(c, &entity.Session{
		UserID:       uuid.New(),
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	access := byName[AccessTokenCookie]
	require.NotNil(t, access)
	assert.Equal(t, "access-token", access.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Positive(t, access.MaxAge)

	refresh := byName[RefreshTokenCookie]
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-token", refresh.Value)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), refresh.MaxAge)
}

func TestStore_TokensReadsCookies(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "abc"})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "def"})
	c, _ := newTestContext(req)

	accessToken, refreshToken := store.Tokens(c)

	assert.Equal(t, "abc", accessToken)
	assert.Equal(t, "def", refreshToken)
}

func TestStore_TokensMissingCookies(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	c, _ := newTestContext(httptest.NewRequest(http.MethodGet, "/", nil))

	accessToken, refreshToken := store.Tokens(c)

	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)
}

func TestStore_ClearExpiresCookies(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	c, rec := newTestContext(httptest.NewRequest(http.MethodGet, "/", nil))

	store.Clear(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}
