package impl

import (
	"context"
	"strings"
	"testing"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/service"
	"crm/internal/infra/sessionevents"
	"crm/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authServiceFixtures struct {
	userRepo      *fakeUserRepo
	authRepo      *fakeAuthRepo
	businessRepo  *fakeBusinessRepo
	tokenService  *fakeTokenService
	mailer        *fakeMailer
	sessionEvents service.SessionEvents
	publisher     *fakeEventPublisher
}

func createTestAuthService(t *testing.T, requireConfirmation bool) (usecase.AuthUsecase, *authServiceFixtures) {
	t.Helper()

	fixtures := &authServiceFixtures{
		userRepo:      newFakeUserRepo(),
		authRepo:      newFakeAuthRepo(),
		businessRepo:  newFakeBusinessRepo(),
		tokenService:  newFakeTokenService(),
		mailer:        &fakeMailer{},
		sessionEvents: sessionevents.New(),
		publisher:     &fakeEventPublisher{},
	}

	svc := NewAuthService(AuthServiceParams{
		TxManager: &fakeTxManager{factory: &fakeRepositoryFactory{
			userRepo:     fixtures.userRepo,
			authRepo:     fixtures.authRepo,
			businessRepo: fixtures.businessRepo,
		}},
		UserRepo:       fixtures.userRepo,
		AuthRepo:       fixtures.authRepo,
		BusinessRepo:   fixtures.businessRepo,
		Hasher:         fakeHasher{},
		TokenService:   fixtures.tokenService,
		Mailer:         fixtures.mailer,
		SessionEvents:  fixtures.sessionEvents,
		EventPublisher: fixtures.publisher,
		Config:         newTestConfig(requireConfirmation),
		Logger:         newDiscardLogger(),
	})

	return svc, fixtures
}

// signup without confirmation is the shortest path to a live account.
func seedAccount(t *testing.T, svc usecase.AuthUsecase, email, password string) *entity.User {
	t.Helper()

	output, err := svc.Signup(context.Background(), usecase.SignupInput{
		Email:        email,
		Password:     password,
		FullName:     "Ada Obi",
		BusinessName: "Obi Traders",
		Industry:     "retail",
		TeamSize:     "1-5",
	})
	require.NoError(t, err)

	return output.User
}

func TestAuthService_Login_ValidationShortCircuits(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestAuthService(t, false)

	_, err := svc.Login(context.Background(), usecase.LoginInput{Email: "not-an-email", Password: ""})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrValidation.ErrorCode(), appErr.ErrorCode())
	assert.Zero(t, fixtures.authRepo.calls, "invalid input must not reach the repository")
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, false)

	_, err := svc.Login(context.Background(), usecase.LoginInput{Email: "ghost@example.com", Password: "secret1"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, false)
	seedAccount(t, svc, "ada@example.com", "secret1")

	_, err := svc.Login(context.Background(), usecase.LoginInput{Email: "ada@example.com", Password: "wrong-1"})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_RejectsUnconfirmedEmail(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, true)

	_, err := svc.Signup(context.Background(), usecase.SignupInput{
		Email:        "ada@example.com",
		Password:     "secret1",
		FullName:     "Ada Obi",
		BusinessName: "Obi Traders",
		Industry:     "retail",
		TeamSize:     "1-5",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), usecase.LoginInput{Email: "ada@example.com", Password: "secret1"})

	require.ErrorIs(t, err, domainerrors.ErrEmailNotConfirmed)
}

func TestAuthService_Login_IssuesSession(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestAuthService(t, false)
	user := seedAccount(t, svc, "ada@example.com", "secret1")

	sub := fixtures.sessionEvents.Subscribe()
	defer sub.Close()

	output, err := svc.Login(context.Background(), usecase.LoginInput{Email: "ada@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, output.User.ID)
	assert.Equal(t, "/dashboard", output.RedirectTo)
	require.NotNil(t, output.Session)
	assert.NotEmpty(t, output.Session.AccessToken)
	assert.NotEmpty(t, output.Session.RefreshToken)

	// Only the hash is persisted.
	_, err = fixtures.authRepo.FindRefreshTokenByHash(context.Background(), hashToken(output.Session.RefreshToken))
	require.NoError(t, err)

	event := <-sub.C()
	assert.Equal(t, service.SessionSignedIn, event.Type)
	assert.Equal(t, user.ID, event.UserID)
	require.NotNil(t, event.Session)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, false)
	seedAccount(t, svc, "ada@example.com", "secret1")

	_, err := svc.Signup(context.Background(), usecase.SignupInput{
		Email:        "ada@example.com",
		Password:     "secret2",
		FullName:     "Ada Again",
		BusinessName: "Again Traders",
		Industry:     "retail",
		TeamSize:     "1-5",
	})

	require.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Signup_RequiresBusinessProfile(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestAuthService(t, false)

	// Email, password and full name alone are not enough; the business
	// profile fields are part of the registration form.
	_, err := svc.Signup(context.Background(), usecase.SignupInput{
		Email:    "ada@example.com",
		Password: "secret1",
		FullName: "Ada Obi",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrValidation.ErrorCode(), appErr.ErrorCode())
	assert.Zero(t, fixtures.authRepo.calls, "invalid input must not reach the repository")
	assert.Zero(t, fixtures.businessRepo.createCalls, "invalid input must not provision a tenant")
}

func TestAuthService_Signup_ProvisionsBusiness(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestAuthService(t, false)

	output, err := svc.Signup(context.Background(), usecase.SignupInput{
		Email:        "ada@example.com",
		Password:     "secret1",
		FullName:     "Ada Obi",
		BusinessName: "Obi Traders",
		Industry:     "retail",
		TeamSize:     "6-20",
		Country:      "Ghana",
	})

	require.NoError(t, err)
	assert.False(t, output.PendingConfirmation)
	require.NotNil(t, output.Session)
	assert.Equal(t, "/dashboard", output.RedirectTo)

	business, err := fixtures.businessRepo.FindByUserID(context.Background(), output.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obi Traders", business.Name)
	assert.Equal(t, entity.IndustryRetail, business.Industry)
	assert.Equal(t, entity.TeamSizeSmall, business.TeamSize)
	assert.Equal(t, "Ghana", business.Country)

	events := fixtures.publisher.published()
	require.NotEmpty(t, events)
	assert.Equal(t, service.AuthEventUserSignedUp, events[0].Type)
}

func TestAuthService_Signup_PendingConfirmationFlow(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestAuthService(t, true)

	output, err := svc.Signup(context.Background(), usecase.SignupInput{
		Email:        "ada@example.com",
		Password:     "secret1",
		FullName:     "Ada Obi",
		BusinessName: "Obi Traders",
		Industry:     "retail",
		TeamSize:     "1-5",
	})

	require.NoError(t, err)
	assert.True(t, output.PendingConfirmation)
	assert.Nil(t, output.Session)
	assert.Empty(t, output.RedirectTo)

	messages := fixtures.mailer.messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "ada@example.com", messages[0].To)
	assert.Equal(t, "Confirm your email", messages[0].Subject)
	assert.Contains(t, messages[0].Body, "http://test.local/auth/callback?code=")

	// Following the emailed link confirms the address and signs the user in.
	code := extractCode(t, messages[0].Body)
	exchanged, err := svc.ExchangeCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, exchanged.Session)
	assert.True(t, exchanged.User.EmailConfirmed())

	// The code is single-use.
	_, err = svc.ExchangeCode(context.Background(), code)
	require.ErrorIs(t, err, domainerrors.ErrCodeInvalid)
}

func extractCode(t *testing.T, mailBody string) string {
	t.Helper()

	_, after, found := strings.Cut(mailBody, "code=")
	require.True(t, found, "mail body carries no confirmation link")

	code, _, _ := strings.Cut(after, "\n")

	return strings.TrimSpace(code)
}

func TestAuthService_ExchangeCode_RejectsEmptyAndUnknown(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, true)

	_, err := svc.ExchangeCode(context.Background(), "")
	require.ErrorIs(t, err, domainerrors.ErrCodeInvalid)

	_, err = svc.ExchangeCode(context.Background(), "deadbeef")
	require.ErrorIs(t, err, domainerrors.ErrCodeInvalid)
}

func TestAuthService_Refresh_RotatesTokenPair(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestAuthService(t, false)
	seedAccount(t, svc, "ada@example.com", "secret1")

	login, err := svc.Login(context.Background(), usecase.LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.Session.RefreshToken)

	require.NoError(t, err)
	require.NotNil(t, refreshed.Session)
	assert.NotEqual(t, login.Session.RefreshToken, refreshed.Session.RefreshToken)

	// The old token hash is revoked, the new one is live.
	_, err = fixtures.authRepo.FindRefreshTokenByHash(context.Background(), hashToken(login.Session.RefreshToken))
	require.Error(t, err)
	_, err = fixtures.authRepo.FindRefreshTokenByHash(context.Background(), hashToken(refreshed.Session.RefreshToken))
	require.NoError(t, err)

	// A revoked token no longer refreshes even though its JWT is intact.
	_, err = svc.Refresh(context.Background(), login.Session.RefreshToken)
	require.ErrorIs(t, err, domainerrors.ErrSessionInvalid)
}

func TestAuthService_Refresh_RejectsGarbage(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, false)

	_, err := svc.Refresh(context.Background(), "not-a-token")

	require.ErrorIs(t, err, domainerrors.ErrSessionInvalid)
}

func TestAuthService_Signout_AlwaysSucceeds(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, false)
	seedAccount(t, svc, "ada@example.com", "secret1")

	login, err := svc.Login(context.Background(), usecase.LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Signout(context.Background(), ""))
	require.NoError(t, svc.Signout(context.Background(), "garbage"))
	require.NoError(t, svc.Signout(context.Background(), login.Session.RefreshToken))

	// The revoked session cannot refresh anymore.
	_, err = svc.Refresh(context.Background(), login.Session.RefreshToken)
	require.ErrorIs(t, err, domainerrors.ErrSessionInvalid)
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Parallel()

	svc, _ := createTestAuthService(t, false)
	seedAccount(t, svc, "ada@example.com", "secret1")

	login, err := svc.Login(context.Background(), usecase.LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.CurrentUser(context.Background(), login.Session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, user.ID)

	_, err = svc.CurrentUser(context.Background(), "forged")
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
