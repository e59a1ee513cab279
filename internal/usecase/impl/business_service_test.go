package impl

import (
	"context"
	"testing"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type businessServiceFixtures struct {
	userRepo     *fakeUserRepo
	businessRepo *fakeBusinessRepo
}

func createTestBusinessService(t *testing.T) (usecase.BusinessUsecase, *businessServiceFixtures) {
	t.Helper()

	fixtures := &businessServiceFixtures{
		userRepo:     newFakeUserRepo(),
		businessRepo: newFakeBusinessRepo(),
	}

	svc := NewBusinessService(BusinessServiceParams{
		BusinessRepo: fixtures.businessRepo,
		UserRepo:     fixtures.userRepo,
		Logger:       newDiscardLogger(),
	})

	return svc, fixtures
}

func seedUser(t *testing.T, fixtures *businessServiceFixtures, fullName, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, FullName: fullName}
	require.NoError(t, fixtures.userRepo.Create(context.Background(), user))

	return user
}

func TestBusinessService_GetOrCreate_RejectsNilUser(t *testing.T) {
	t.Parallel()

	svc, _ := createTestBusinessService(t)

	_, err := svc.GetOrCreateBusiness(context.Background(), uuid.Nil)

	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestBusinessService_GetOrCreate_UnknownUser(t *testing.T) {
	t.Parallel()

	svc, _ := createTestBusinessService(t)

	_, err := svc.GetOrCreateBusiness(context.Background(), uuid.New())

	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestBusinessService_GetOrCreate_ProvisionsDefaults(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "Ada Obi", "ada@example.com")

	business, err := svc.GetOrCreateBusiness(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, "Ada Obi's Business", business.Name)
	assert.Equal(t, entity.IndustryOther, business.Industry)
	assert.Equal(t, entity.TeamSizeMicro, business.TeamSize)
	assert.Equal(t, entity.DefaultCountry, business.Country)
}

func TestBusinessService_GetOrCreate_NameFallsBackToEmail(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "", "ada@example.com")

	business, err := svc.GetOrCreateBusiness(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, "ada's Business", business.Name)
}

func TestBusinessService_GetOrCreate_IsIdempotent(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "Ada Obi", "ada@example.com")

	first, err := svc.GetOrCreateBusiness(context.Background(), user.ID)
	require.NoError(t, err)

	second, err := svc.GetOrCreateBusiness(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, fixtures.businessRepo.createCalls, "second call must reuse the existing row")
}

func TestBusinessService_GetOrCreate_LosingRaceReadsWinner(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "Ada Obi", "ada@example.com")

	// Simulate the winner committing between our miss and our insert: the
	// first lookup misses, the insert then hits the unique index.
	winner := &entity.Business{
		UserID:   user.ID,
		Name:     "Winner's Business",
		Industry: entity.IndustryOther,
		TeamSize: entity.TeamSizeMicro,
		Country:  entity.DefaultCountry,
	}
	require.NoError(t, fixtures.businessRepo.Create(context.Background(), winner))
	fixtures.businessRepo.missOnce = true

	business, err := svc.GetOrCreateBusiness(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, winner.ID, business.ID)
	assert.Equal(t, "Winner's Business", business.Name)
}

func TestBusinessService_GetOrCreate_CreateFailure(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "Ada Obi", "ada@example.com")
	fixtures.businessRepo.failCreate = assert.AnError

	_, err := svc.GetOrCreateBusiness(context.Background(), user.ID)

	require.ErrorIs(t, err, domainerrors.ErrBusinessProvisionFailed)
}

func TestBusinessService_Update(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "Ada Obi", "ada@example.com")

	_, err := svc.GetOrCreateBusiness(context.Background(), user.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateBusiness(context.Background(), user.ID, usecase.UpdateBusinessInput{
		Name:     "Obi Traders",
		Industry: "retail",
		TeamSize: "6-20",
		Country:  "Ghana",
	})

	require.NoError(t, err)
	assert.Equal(t, "Obi Traders", updated.Name)
	assert.Equal(t, entity.IndustryRetail, updated.Industry)

	stored, err := fixtures.businessRepo.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obi Traders", stored.Name)
}

func TestBusinessService_Update_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "Ada Obi", "ada@example.com")

	_, err := svc.UpdateBusiness(context.Background(), user.ID, usecase.UpdateBusinessInput{
		Name:     "Obi Traders",
		Industry: "mining",
		TeamSize: "1-5",
		Country:  "Ghana",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrValidation.ErrorCode(), appErr.ErrorCode())
}

func TestBusinessService_Update_NoBusiness(t *testing.T) {
	t.Parallel()

	svc, fixtures := createTestBusinessService(t)
	user := seedUser(t, fixtures, "Ada Obi", "ada@example.com")

	_, err := svc.UpdateBusiness(context.Background(), user.ID, usecase.UpdateBusinessInput{
		Name:     "Obi Traders",
		Industry: "retail",
		TeamSize: "1-5",
		Country:  "Ghana",
	})

	require.ErrorIs(t, err, domainerrors.ErrBusinessNotFound)
}
