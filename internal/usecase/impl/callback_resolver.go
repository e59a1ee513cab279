package impl

import (
	"context"
	"log/slog"
	"time"

	"crm/config"
	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/service"
	"crm/internal/usecase"

	"go.uber.org/fx"
)

// callbackResolver implements the CallbackUsecase interface. It drives the
// email-confirmation callback to a terminal state: explicit provider errors
// and code exchanges resolve synchronously, while the no-code case waits for
// a session established by a concurrent request (typically an email client
// that prefetched the confirmation link and consumed the code first).
type callbackResolver struct {
	authUsecase   usecase.AuthUsecase
	sessionEvents service.SessionEvents
	authConfig    *config.AuthConfig
	logger        *slog.Logger
}

// CallbackResolverParams holds dependencies for CallbackResolver, injected by Fx.
type CallbackResolverParams struct {
	fx.In

	AuthUsecase   usecase.AuthUsecase
	SessionEvents service.SessionEvents
	Config        *config.Config
	Logger        *slog.Logger
}

// NewCallbackResolver is the constructor for callbackResolver.
func NewCallbackResolver(params CallbackResolverParams) usecase.CallbackUsecase {
	var authConfig *config.AuthConfig
	if params.Config != nil {
		authConfig = params.Config.Auth
	}

	return &callbackResolver{
		authUsecase:   params.AuthUsecase,
		sessionEvents: params.SessionEvents,
		authConfig:    authConfig.Normalized(),
		logger:        params.Logger,
	}
}

func (srv *callbackResolver) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Resolve drives the callback state machine to a terminal state.
func (srv *callbackResolver) Resolve(ctx context.Context, input usecase.ResolveCallbackInput) *usecase.CallbackResult {
	path := []usecase.CallbackState{usecase.CallbackInitializing}

	if input.ErrorCode != "" || input.ErrorDescription != "" {
		message := input.ErrorDescription
		if message == "" {
			message = input.ErrorCode
		}
		srv.log(ctx).Warn("Callback carried provider error", slog.String("error", message))

		return errorResult(path, message)
	}

	if input.Code != "" {
		return srv.resolveCodeExchange(ctx, path, input)
	}

	return srv.resolveImplicit(ctx, path, input)
}

// resolveCodeExchange redeems the exchange code. A failed exchange is still a
// success when the request already carries a session: the code was consumed
// by a prefetcher, but the prefetch response set the cookies.
func (srv *callbackResolver) resolveCodeExchange(ctx context.Context, path []usecase.CallbackState, input usecase.ResolveCallbackInput) *usecase.CallbackResult {
	path = append(path, usecase.CallbackProcessing)

	output, err := srv.authUsecase.ExchangeCode(ctx, input.Code)
	if err == nil {
		return srv.successResult(path, output.Session)
	}

	if input.CurrentSession != nil {
		srv.log(ctx).Info("Exchange failed but request already holds a session")

		return srv.successResult(path, nil)
	}

	srv.log(ctx).Warn("Exchange code redemption failed", slog.Any("error", err))

	return errorResult(path, domainerrors.ErrCodeInvalid.Message())
}

// resolveImplicit handles the no-code callback. The resolution races an
// in-process session-event subscription against a bounded retry budget;
// whichever settles first wins and the context cancels the loser.
func (srv *callbackResolver) resolveImplicit(ctx context.Context, path []usecase.CallbackState, input usecase.ResolveCallbackInput) *usecase.CallbackResult {
	path = append(path, usecase.CallbackProcessing)

	if input.CurrentSession != nil {
		return srv.successResult(path, nil)
	}

	waitCtx, cancel := context.WithTimeout(ctx,
		time.Duration(srv.authConfig.CallbackRetryAttempts)*srv.authConfig.CallbackRetryInterval)
	defer cancel()

	sub := srv.sessionEvents.Subscribe()
	defer sub.Close()

	for {
		select {
		case event, ok := <-sub.C():
			if !ok {
				return errorResult(path, domainerrors.ErrCallbackTimeout.Message())
			}
			if event.Session == nil {
				continue
			}
			srv.log(ctx).Info("Adopted session from concurrent sign-in", slog.Any("userID", event.UserID))

			return srv.successResult(path, event.Session)

		case <-waitCtx.Done():
			srv.log(ctx).Warn("Callback retry budget exhausted")

			return errorResult(path, domainerrors.ErrCallbackTimeout.Message())
		}
	}
}

func (srv *callbackResolver) successResult(path []usecase.CallbackState, session *entity.Session) *usecase.CallbackResult {
	return &usecase.CallbackResult{
		State:         usecase.CallbackSuccess,
		Path:          append(path, usecase.CallbackSuccess),
		Message:       "Email confirmed, you are signed in",
		RedirectTo:    "/dashboard",
		RedirectDelay: srv.authConfig.RedirectDelay,
		Session:       session,
	}
}

func errorResult(path []usecase.CallbackState, message string) *usecase.CallbackResult {
	return &usecase.CallbackResult{
		State:   usecase.CallbackError,
		Path:    append(path, usecase.CallbackError),
		Message: message,
		Recovery: &usecase.CallbackRecovery{
			Retry:    true,
			Login:    "/login",
			Register: "/register",
		},
	}
}
