package services

import (
	"context"
	"testing"

	"github.com/serviceloop/marketplace-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestEnsureSkipsNonElevatedRoles(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	providers := NewProviderService(db)
	ctx := context.Background()

	user, err := users.Upsert(ctx, testClaims("abc123"), "")
	require.NoError(t, err)

	profile, err := providers.Ensure(ctx, user)
	require.NoError(t, err)
	require.Nil(t, profile)
	require.EqualValues(t, 0, countRows(t, db, &models.ProviderProfile{}))
}

func TestEnsureCreatesProfileOnce(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	providers := NewProviderService(db)
	ctx := context.Background()

	user, err := users.Upsert(ctx, testClaims("abc123"), models.RoleProvider)
	require.NoError(t, err)

	first, err := providers.Ensure(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Equal(t, user.ID, first.UserID)
	require.Equal(t, user.Name, first.BusinessName)
	require.Equal(t, user.Email, first.ContactEmail)
	require.Equal(t, models.ProviderStatusActive, first.Status)

	second, err := providers.Ensure(ctx, user)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.EqualValues(t, 1, countRows(t, db, &models.ProviderProfile{}))
}

func TestEnsureDoesNotReseedExistingProfile(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	providers := NewProviderService(db)
	ctx := context.Background()

	user, err := users.Upsert(ctx, testClaims("abc123"), models.RoleProvider)
	require.NoError(t, err)

	profile, err := providers.Ensure(ctx, user)
	require.NoError(t, err)

	// The profile is independently mutable after creation; a later sync
	// must return it untouched.
	require.NoError(t, db.Model(profile).Update("business_name", "Acme Plumbing").Error)

	again, err := providers.Ensure(ctx, user)
	require.NoError(t, err)
	require.Equal(t, "Acme Plumbing", again.BusinessName)
}

func TestEnsureRecoversFromConcurrentInsert(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	providers := NewProviderService(db)
	ctx := context.Background()

	user, err := users.Upsert(ctx, testClaims("abc123"), models.RoleProvider)
	require.NoError(t, err)

	winner, err := providers.Ensure(ctx, user)
	require.NoError(t, err)

	// Insert path taken after a stale "no profile" read: the unique index
	// rejects it and the existing row is returned instead.
	recovered, err := providers.create(ctx, user)
	require.NoError(t, err)
	require.Equal(t, winner.ID, recovered.ID)
	require.EqualValues(t, 1, countRows(t, db, &models.ProviderProfile{}))
}
