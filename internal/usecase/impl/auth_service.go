package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"crm/config"
	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/domain/service"
	"crm/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const exchangeCodeBytes = 32

// authService implements the AuthUsecase interface.
type authService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	authRepo       repository.AuthRepository
	businessRepo   repository.BusinessRepository
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	mailer         service.Mailer
	sessionEvents  service.SessionEvents
	eventPublisher service.EventPublisher
	authConfig     *config.AuthConfig
	validate       *validator.Validate
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	AuthRepo       repository.AuthRepository
	BusinessRepo   repository.BusinessRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	Mailer         service.Mailer
	SessionEvents  service.SessionEvents
	EventPublisher service.EventPublisher
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	var authConfig *config.AuthConfig
	if params.Config != nil {
		authConfig = params.Config.Auth
	}

	return &authService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		authRepo:       params.AuthRepo,
		businessRepo:   params.BusinessRepo,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		mailer:         params.Mailer,
		sessionEvents:  params.SessionEvents,
		eventPublisher: params.EventPublisher,
		authConfig:     authConfig.Normalized(),
		validate:       newValidator(),
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login authenticates an email/password pair and establishes a session.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	cred, err := srv.authRepo.FindCredential(ctx, entity.ProviderTypeEmail, input.Email)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find credential")
	}

	if !srv.hasher.Check(input.Password, cred.PasswordHash) {
		srv.log(ctx).Warn("Login rejected, password mismatch", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := srv.userRepo.FindByID(ctx, cred.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for credential")
	}

	if srv.authConfig.RequireEmailConfirmation && !user.EmailConfirmed() {
		return nil, domainerrors.ErrEmailNotConfirmed
	}

	session, err := srv.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{
		User:       user,
		Session:    session,
		RedirectTo: "/dashboard",
	}, nil
}

// Signup registers a new account, provisions its tenant and either issues a
// session directly or defers to email confirmation.
func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*usecase.SignupOutput, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		_, findErr := repos.Auth().FindCredential(ctx, entity.ProviderTypeEmail, input.Email)
		if findErr == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(findErr, repository.ErrCredentialNotFound) {
			return errors.Wrap(findErr, "failed to check existing credential")
		}

		newUser := &entity.User{
			Email:    input.Email,
			FullName: input.FullName,
		}
		if createErr := repos.Users().Create(ctx, newUser); createErr != nil {
			return createErr
		}

		cred := &entity.Credential{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: input.Email,
			PasswordHash:   hashedPassword,
		}
		if createErr := repos.Auth().CreateCredential(ctx, cred); createErr != nil {
			return createErr
		}

		user = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Signup transaction failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Tenant provisioning is best-effort: a failure here self-heals on the
	// first dashboard request through GetOrCreateBusiness.
	business := buildDefaultBusiness(user, input.BusinessName, input.Industry, input.TeamSize, input.Country)
	if provisionErr := srv.businessRepo.Create(ctx, business); provisionErr != nil &&
		!errors.Is(provisionErr, repository.ErrBusinessExists) {
		srv.log(ctx).Warn("Business provisioning failed, deferring to first request",
			slog.Any("userID", user.ID), slog.Any("error", provisionErr))
	}

	srv.publishAuthEvent(ctx, service.AuthEventUserSignedUp, user)

	if srv.authConfig.RequireEmailConfirmation {
		if mailErr := srv.sendConfirmationMail(ctx, user); mailErr != nil {
			return nil, mailErr
		}

		srv.log(ctx).Info("Signup pending email confirmation", slog.Any("userID", user.ID))

		return &usecase.SignupOutput{
			User:                user,
			PendingConfirmation: true,
		}, nil
	}

	session, err := srv.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Signup completed", slog.Any("userID", user.ID))

	return &usecase.SignupOutput{
		User:       user,
		Session:    session,
		RedirectTo: "/dashboard",
	}, nil
}

// Signout revokes the session behind the refresh token. It never fails:
// whatever state the token is in, the caller clears cookies and moves on.
func (srv *authService) Signout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	userID, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Debug("Signout with invalid refresh token, ignoring")

		return nil
	}

	if err := srv.authRepo.DeleteRefreshTokenByHash(ctx, hashToken(refreshToken)); err != nil {
		srv.log(ctx).Warn("Failed to delete refresh token on signout", slog.Any("error", err))
	}

	srv.sessionEvents.Publish(service.SessionEvent{
		Type:   service.SessionSignedOut,
		UserID: userID,
	})
	srv.publishAuthEvent(ctx, service.AuthEventSessionRevoked, &entity.User{ID: userID})

	return nil
}

// Refresh rotates a session's token pair. Validation covers both the JWT
// signature and the stored hash, so a stolen-but-revoked token is useless.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	userID, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrSessionInvalid
	}

	oldHash := hashToken(refreshToken)
	stored, err := srv.authRepo.FindRefreshTokenByHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrSessionInvalid
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}
	if stored.UserID != userID {
		return nil, domainerrors.ErrSessionInvalid
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, domainerrors.ErrSessionInvalid
	}

	accessToken, newRefreshToken, err := srv.tokenService.GenerateTokens(userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	session := srv.buildSession(userID, accessToken, newRefreshToken)

	// Rotate atomically so a crash can never leave both tokens live.
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if delErr := repos.Auth().DeleteRefreshTokenByHash(ctx, oldHash); delErr != nil {
			return delErr
		}

		return repos.Auth().CreateRefreshToken(ctx, &entity.RefreshToken{
			UserID:    userID,
			TokenHash: hashToken(newRefreshToken),
			ExpiresAt: time.Now().Add(srv.tokenService.RefreshTokenDuration()),
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to rotate refresh token")
	}

	srv.sessionEvents.Publish(service.SessionEvent{
		Type:    service.SessionRefreshed,
		UserID:  userID,
		Session: session,
	})

	return &usecase.AuthOutput{
		User:    user,
		Session: session,
	}, nil
}

// CurrentUser resolves the user behind a valid access token.
func (srv *authService) CurrentUser(ctx context.Context, accessToken string) (*entity.User, error) {
	userID, err := srv.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}

		return nil, errors.Wrap(err, "failed to load current user")
	}

	return user, nil
}

// ExchangeCode redeems a single-use email confirmation code, marks the email
// confirmed and establishes a session.
func (srv *authService) ExchangeCode(ctx context.Context, code string) (*usecase.AuthOutput, error) {
	if code == "" {
		return nil, domainerrors.ErrCodeInvalid
	}

	exchangeCode, err := srv.authRepo.ConsumeExchangeCode(ctx, hashToken(code))
	if err != nil {
		if errors.Is(err, repository.ErrExchangeCodeNotFound) ||
			errors.Is(err, repository.ErrExchangeCodeConsumed) {
			return nil, domainerrors.ErrCodeInvalid
		}

		return nil, errors.Wrap(err, "failed to consume exchange code")
	}

	if err := srv.userRepo.MarkEmailConfirmed(ctx, exchangeCode.UserID); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, exchangeCode.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for exchange code")
	}

	session, err := srv.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Exchange code redeemed", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{
		User:       user,
		Session:    session,
		RedirectTo: "/dashboard",
	}, nil
}

// issueSession generates a token pair, persists the hashed refresh half and
// announces the new session.
func (srv *authService) issueSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = srv.authRepo.CreateRefreshToken(ctx, &entity.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.RefreshTokenDuration()),
	})
	if err != nil {
		return nil, err
	}

	session := srv.buildSession(userID, accessToken, refreshToken)

	srv.sessionEvents.Publish(service.SessionEvent{
		Type:    service.SessionSignedIn,
		UserID:  userID,
		Session: session,
	})
	srv.publishAuthEvent(ctx, service.AuthEventSessionCreated, &entity.User{ID: userID})

	return session, nil
}

func (srv *authService) buildSession(userID uuid.UUID, accessToken, refreshToken string) *entity.Session {
	return &entity.Session{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(srv.tokenService.AccessTokenDuration()),
	}
}

// sendConfirmationMail creates the single-use exchange code and emails the
// confirmation link.
func (srv *authService) sendConfirmationMail(ctx context.Context, user *entity.User) error {
	rawCode, err := generateExchangeCode()
	if err != nil {
		return errors.Wrap(err, "failed to generate exchange code")
	}

	err = srv.authRepo.CreateExchangeCode(ctx, &entity.ExchangeCode{
		UserID:    user.ID,
		CodeHash:  hashToken(rawCode),
		ExpiresAt: time.Now().Add(srv.authConfig.ExchangeCodeTTL),
	})
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/callback?code=%s", srv.authConfig.ResolveSiteURL(), rawCode)
	body := fmt.Sprintf("Hi %s,\n\nConfirm your email address to finish setting up your account:\n\n%s\n\nThe link expires in %s.\n",
		user.DisplayName(), link, srv.authConfig.ExchangeCodeTTL)

	if err := srv.mailer.Send(ctx, user.Email, "Confirm your email", body); err != nil {
		return errors.Wrap(err, "failed to send confirmation mail")
	}

	return nil
}

// publishAuthEvent sends an event to the external stream, best-effort.
func (srv *authService) publishAuthEvent(ctx context.Context, eventType string, user *entity.User) {
	event := &service.AuthEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		UserID:     user.ID.String(),
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}

	if err := srv.eventPublisher.PublishAuthEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish auth event",
			slog.String("type", eventType), slog.Any("error", err))
	}
}

// hashToken derives the storage key for refresh tokens and exchange codes.
// Only the digest is persisted, so a database leak exposes nothing usable.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

func generateExchangeCode() (string, error) {
	buf := make([]byte, exchangeCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.WithStack(err)
	}

	return hex.EncodeToString(buf), nil
}
