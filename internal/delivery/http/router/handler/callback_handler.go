package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/delivery/http/response"
	"crm/internal/delivery/http/session"
	"crm/internal/domain/entity"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CallbackHandlerParams holds dependencies for CallbackHandler, injected by Fx.
type CallbackHandlerParams struct {
	fx.In

	CallbackUC usecase.CallbackUsecase
	AuthUC     usecase.AuthUsecase
	Store      *session.Store
	Logger     *slog.Logger
}

// CallbackHandler resolves the email-confirmation callback. The route guard
// skips this path; the handler owns session resolution, including the case
// where a mail-client prefetcher consumed the code first.
type CallbackHandler struct {
	callbackUC usecase.CallbackUsecase
	authUC     usecase.AuthUsecase
	store      *session.Store
	logger     *slog.Logger
}

// NewCallbackHandler is the constructor for CallbackHandler.
func NewCallbackHandler(params CallbackHandlerParams) *CallbackHandler {
	return &CallbackHandler{
		callbackUC: params.CallbackUC,
		authUC:     params.AuthUC,
		store:      params.Store,
		logger:     params.Logger,
	}
}

// callbackResponse mirrors CallbackResult for the frontend. The delay is in
// milliseconds so the client can feed it straight into a timer.
type callbackResponse struct {
	State           string    `json:"state"`
	Path            []string  `json:"path"`
	Message         string    `json:"message"`
	RedirectTo      string    `json:"redirectTo,omitempty"`
	RedirectDelayMs int64     `json:"redirectDelayMs,omitempty"`
	Recovery        *recovery `json:"recovery,omitempty"`
}

type recovery struct {
	Retry    bool   `json:"retry"`
	Login    string `json:"login"`
	Register string `json:"register"`
}

// Resolve handles GET /auth/callback.
func (h *CallbackHandler) Resolve(c echo.Context) error {
	input := usecase.ResolveCallbackInput{
		Code:             c.QueryParam("code"),
		ErrorCode:        c.QueryParam("error"),
		ErrorDescription: c.QueryParam("error_description"),
		CurrentSession:   h.currentSession(c),
	}

	result := h.callbackUC.Resolve(c.Request().Context(), input)

	if result.Session != nil {
		h.store.Write(c, result.Session)
	}

	if result.State == usecase.CallbackError {
		h.logger.Warn("Callback resolution failed",
			slog.String("request_id", deliverycontext.GetRequestID(c)),
			slog.String("message", result.Message))

		// The body still carries the recovery affordances.
		return c.JSON(http.StatusUnauthorized, response.Response{
			Success: false,
			Code:    http.StatusUnauthorized,
			Message: result.Message,
			Data:    toCallbackResponse(result),
			Error:   &response.ErrorInfo{Code: "CALLBACK_FAILED", Details: result.Message},
		})
	}

	return response.Success(c, http.StatusOK, toCallbackResponse(result), result.Message)
}

// currentSession validates the session already carried by the cookies, if
// any. The guard does not run on this route, so the handler checks itself.
func (h *CallbackHandler) currentSession(c echo.Context) *entity.Session {
	accessToken, refreshToken := h.store.Tokens(c)
	if accessToken == "" {
		return nil
	}

	user, err := h.authUC.CurrentUser(c.Request().Context(), accessToken)
	if err != nil {
		return nil
	}

	return &entity.Session{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
}

func toCallbackResponse(result *usecase.CallbackResult) callbackResponse {
	path := make([]string, 0, len(result.Path))
	for _, state := range result.Path {
		path = append(path, string(state))
	}

	out := callbackResponse{
		State:           string(result.State),
		Path:            path,
		Message:         result.Message,
		RedirectTo:      result.RedirectTo,
		RedirectDelayMs: result.RedirectDelay.Milliseconds(),
	}
	if result.Recovery != nil {
		out.Recovery = &recovery{
			Retry:    result.Recovery.Retry,
			Login:    result.Recovery.Login,
			Register: result.Recovery.Register,
		}
	}

	return out
}
