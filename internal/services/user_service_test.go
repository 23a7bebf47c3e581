package services

import (
	"context"
	"testing"
	"time"

	"github.com/serviceloop/marketplace-backend/internal/identity"
	"github.com/serviceloop/marketplace-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreatesNewUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Upsert(context.Background(), testClaims("abc123"), "")
	require.NoError(t, err)
	require.Equal(t, "abc123", user.UID)
	require.Equal(t, "Jane Doe", user.Name)
	require.Equal(t, models.RoleClient, user.Role)
	require.Equal(t, models.VerificationPending, user.VerificationStatus)
	require.NotNil(t, user.Email)
	require.Equal(t, "abc123@example.com", *user.Email)
	require.False(t, user.LastLoginAt.IsZero())
	require.EqualValues(t, 1, countRows(t, db, &models.User{}))
}

func TestUpsertCreateWithRequestedRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Upsert(context.Background(), testClaims("abc123"), models.RoleProvider)
	require.NoError(t, err)
	require.Equal(t, models.RoleProvider, user.Role)
}

func TestUpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	claims := testClaims("abc123")

	first, err := svc.Upsert(ctx, claims, "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second, err := svc.Upsert(ctx, claims, "")
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.UID, second.UID)
	require.Equal(t, first.Name, second.Name)
	require.Equal(t, first.Email, second.Email)
	require.Equal(t, first.Role, second.Role)
	require.Equal(t, first.VerificationStatus, second.VerificationStatus)
	require.True(t, second.LastLoginAt.After(first.LastLoginAt))
	require.True(t, second.UpdatedAt.After(first.UpdatedAt))
	require.EqualValues(t, 1, countRows(t, db, &models.User{}))
}

func TestUpsertPreservesRoleWhenNotRequested(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, testClaims("abc123"), models.RoleProvider)
	require.NoError(t, err)

	user, err := svc.Upsert(ctx, testClaims("abc123"), "")
	require.NoError(t, err)
	require.Equal(t, models.RoleProvider, user.Role, "role must never be downgraded implicitly")
}

func TestUpsertOverwritesRoleOnlyWhenRequested(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, testClaims("abc123"), "")
	require.NoError(t, err)

	user, err := svc.Upsert(ctx, testClaims("abc123"), models.RoleProvider)
	require.NoError(t, err)
	require.Equal(t, models.RoleProvider, user.Role)
}

func TestUpsertDoesNotClearAbsentFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, testClaims("abc123"), "")
	require.NoError(t, err)

	sparse := &identity.Claims{UID: "abc123", EmailVerified: true}
	user, err := svc.Upsert(ctx, sparse, "")
	require.NoError(t, err)

	require.Equal(t, "Jane Doe", user.Name)
	require.NotNil(t, user.Email)
	require.Equal(t, "abc123@example.com", *user.Email)
	require.NotNil(t, user.Picture)
	require.NotNil(t, user.SignInProvider)
}

func TestUpsertNamePlaceholder(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	// A blank claim name always gets the fixed placeholder, even when other
	// claims could suggest a name.
	noName := testClaims("u1")
	noName.Name = ""
	user, err := svc.Upsert(ctx, noName, "")
	require.NoError(t, err)
	require.Equal(t, placeholderName, user.Name)

	bare := &identity.Claims{UID: "u2"}
	user, err = svc.Upsert(ctx, bare, "")
	require.NoError(t, err)
	require.Equal(t, placeholderName, user.Name)
}

// Exercises the duplicate-login race: the caller observed "no row" but by
// insert time another request has won. The insert must be rejected by the
// unique index and recovered into an update, with no error surfaced and no
// second row created.
func TestCreateRecoversFromConcurrentInsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	winner, err := svc.Upsert(ctx, testClaims("abc123"), "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	loser, err := svc.create(ctx, testClaims("abc123"), "")
	require.NoError(t, err)
	require.Equal(t, winner.ID, loser.ID)
	require.True(t, loser.LastLoginAt.After(winner.LastLoginAt))
	require.EqualValues(t, 1, countRows(t, db, &models.User{}))
}

func TestCreateConflictDoesNotChangeRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, testClaims("abc123"), models.RoleProvider)
	require.NoError(t, err)

	recovered, err := svc.create(ctx, testClaims("abc123"), "")
	require.NoError(t, err)
	require.Equal(t, models.RoleProvider, recovered.Role)
}

func TestCreateSurfacesEmailConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, testClaims("abc123"), "")
	require.NoError(t, err)

	// Different uid claiming an email another account owns: not a lost
	// race, must fail instead of silently merging accounts.
	other := testClaims("xyz999")
	other.Email = "abc123@example.com"
	_, err = svc.Upsert(ctx, other, "")
	require.Error(t, err)
	require.EqualValues(t, 1, countRows(t, db, &models.User{}))
}
