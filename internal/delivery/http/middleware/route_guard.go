package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/delivery/http/session"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

// RouteGuard resolves the session carried by a request's cookies and applies
// the page access rules: guarded pages bounce unauthenticated visitors to
// login, auth pages bounce signed-in users to the dashboard. An expired
// access token is refreshed transparently when the refresh cookie still
// holds a live session.
type RouteGuard struct {
	authUsecase usecase.AuthUsecase
	store       *session.Store
	logger      *slog.Logger
}

// Paths the guard treats specially. The callback route is skipped entirely:
// its handler owns session resolution, including the prefetcher race.
const (
	callbackPath    = "/auth/callback"
	loginPath       = "/login"
	registerPath    = "/register"
	dashboardPrefix = "/dashboard"
)

// NewRouteGuard is the constructor for RouteGuard.
func NewRouteGuard(authUsecase usecase.AuthUsecase, store *session.Store, logger *slog.Logger) *RouteGuard {
	return &RouteGuard{
		authUsecase: authUsecase,
		store:       store,
		logger:      logger,
	}
}

// Guard is the middleware entrypoint.
func (g *RouteGuard) Guard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if path == callbackPath {
			return next(c)
		}

		g.resolveSession(c)
		_, authenticated := deliverycontext.GetUserID(c)

		if strings.HasPrefix(path, dashboardPrefix) && !authenticated {
			target := loginPath + "?redirect=" + url.QueryEscape(path)

			return c.Redirect(http.StatusSeeOther, target)
		}

		if (path == loginPath || path == registerPath) && authenticated {
			return c.Redirect(http.StatusSeeOther, dashboardPrefix)
		}

		return next(c)
	}
}

// RequireAuth rejects unauthenticated API requests. It must run after Guard.
func (g *RouteGuard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := deliverycontext.GetUserID(c); !ok {
			return domainerrors.ErrUnauthorized
		}

		return next(c)
	}
}

// resolveSession authenticates the request from its cookies, refreshing the
// token pair when only the refresh half is still valid. Failures leave the
// request anonymous; the route rules decide what that means.
func (g *RouteGuard) resolveSession(c echo.Context) {
	accessToken, refreshToken := g.store.Tokens(c)
	if accessToken == "" && refreshToken == "" {
		return
	}

	ctx := c.Request().Context()

	if accessToken != "" {
		if user, err := g.authUsecase.CurrentUser(ctx, accessToken); err == nil {
			deliverycontext.SetUserID(c, user.ID)
			deliverycontext.SetSession(c, &entity.Session{
				UserID:       user.ID,
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
			})

			return
		}
	}

	if refreshToken == "" {
		return
	}

	output, err := g.authUsecase.Refresh(ctx, refreshToken)
	if err != nil {
		g.logger.Debug("Session refresh failed, clearing cookies", slog.Any("error", err))
		g.store.Clear(c)

		return
	}

	g.store.Write(c, output.Session)
	deliverycontext.SetUserID(c, output.User.ID)
	deliverycontext.SetSession(c, output.Session)
}
