// Package session reads and writes the auth cookie pair. The browser never
// sees raw tokens outside these HttpOnly cookies.
package session

import (
	"net/http"
	"time"

	"crm/config"
	"crm/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// Cookie names for the session token pair.
const (
	AccessTokenCookie  = "crm_access_token"
	RefreshTokenCookie = "crm_refresh_token"
)

// Store writes the session token pair to cookies and reads it back.
type Store struct {
	authConfig *config.AuthConfig
}

// NewStore creates a cookie store from the auth configuration.
func NewStore(cfg *config.Config) *Store {
	var authConfig *config.AuthConfig
	if cfg != nil {
		authConfig = cfg.Auth
	}

	return &Store{authConfig: authConfig.Normalized()}
}

// Tokens returns the raw access and refresh tokens carried by the request's
// cookies. Missing cookies yield empty strings.
func (s *Store) Tokens(c echo.Context) (accessToken, refreshToken string) {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		accessToken = cookie.Value
	}
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	return accessToken, refreshToken
}

// Write sets both session cookies. The access cookie expires with the access
// token; the refresh cookie lives as long as the refresh token it carries.
func (s *Store) Write(c echo.Context, session *entity.Session) {
	if session == nil {
		return
	}

	accessMaxAge := int(time.Until(session.ExpiresAt).Seconds())
	if accessMaxAge <= 0 {
		accessMaxAge = int(s.authConfig.AccessTokenTTL.Seconds())
	}

	c.SetCookie(s.cookie(AccessTokenCookie, session.AccessToken, accessMaxAge))
	c.SetCookie(s.cookie(RefreshTokenCookie, session.RefreshToken, int(s.authConfig.RefreshTokenTTL.Seconds())))
}

// Clear expires both session cookies.
func (s *Store) Clear(c echo.Context) {
	c.SetCookie(s.cookie(AccessTokenCookie, "", -1))
	c.SetCookie(s.cookie(RefreshTokenCookie, "", -1))
}

func (s *Store) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.authConfig.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
