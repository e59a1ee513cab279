package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/delivery/http/response"
	"crm/internal/delivery/http/session"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Store  *session.Store
	Logger *slog.Logger
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	store  *session.Store
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		store:  params.Store,
		logger: params.Logger,
	}
}

// authResponse is the JSON body for successful auth operations. Tokens stay
// in cookies; the body only tells the frontend where to go next.
type authResponse struct {
	User                *UserDTO `json:"user"`
	RedirectTo          string   `json:"redirectTo,omitempty"`
	PendingConfirmation bool     `json:"pendingConfirmation,omitempty"`
}

// Register handles the signup request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	output, err := h.authUC.Signup(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	if output.PendingConfirmation {
		return response.Success(c, http.StatusCreated, authResponse{
			User:                toUserDTO(output.User),
			PendingConfirmation: true,
		}, "Check your email to confirm your account")
	}

	h.store.Write(c, output.Session)

	return response.Success(c, http.StatusCreated, authResponse{
		User:       toUserDTO(output.User),
		RedirectTo: output.RedirectTo,
	}, "Account created")
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.authUC.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.store.Write(c, output.Session)

	return response.Success(c, http.StatusOK, authResponse{
		User:       toUserDTO(output.User),
		RedirectTo: output.RedirectTo,
	}, "Login successful")
}

// Logout revokes the current session and clears the cookies. It succeeds
// whatever state the cookies are in.
func (h *AuthHandler) Logout(c echo.Context) error {
	_, refreshToken := h.store.Tokens(c)

	if err := h.authUC.Signout(c.Request().Context(), refreshToken); err != nil {
		return errors.WithStack(err)
	}

	h.store.Clear(c)

	return response.Success(c, http.StatusOK, authResponse{RedirectTo: "/login"}, "Signed out")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	currentSession := deliverycontext.GetSession(c)
	if currentSession == nil {
		return domainerrors.ErrUnauthorized
	}

	user, err := h.authUC.CurrentUser(c.Request().Context(), currentSession.AccessToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserDTO(user), "")
}
