package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serviceloop/marketplace-backend/internal/identity"
	"github.com/serviceloop/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

// placeholderName is stored when the credential carries no usable name.
const placeholderName = "New User"

// UserService reconciles verified identity claims into local user rows.
// All coordination happens through the unique index on uid; there are no
// in-process locks.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Upsert creates or updates the user keyed by claims.UID and returns the
// resulting row. requestedRole changes the stored role only when non-empty;
// an empty role preserves whatever is already stored (or defaults new users
// to client).
func (s *UserService) Upsert(ctx context.Context, claims *identity.Claims, requestedRole models.Role) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("uid = ?", claims.UID).First(&user).Error
	switch {
	case err == nil:
		return s.update(ctx, &user, claims, requestedRole)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.create(ctx, claims, requestedRole)
	default:
		return nil, fmt.Errorf("lookup user %s: %w", claims.UID, err)
	}
}

func (s *UserService) create(ctx context.Context, claims *identity.Claims, requestedRole models.Role) (*models.User, error) {
	role := models.RoleClient
	if requestedRole != "" {
		role = requestedRole
	}

	user := models.User{
		ID:                 uuid.New(),
		UID:                claims.UID,
		Name:               displayName(claims),
		Email:              nullable(claims.Email),
		EmailVerified:      claims.EmailVerified,
		Picture:            nullable(claims.Picture),
		SignInProvider:     nullable(claims.SignInProvider),
		Tenant:             nullable(claims.Tenant),
		Role:               role,
		VerificationStatus: models.VerificationPending,
		LastLoginAt:        time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.recoverCreate(ctx, claims, requestedRole, err)
		}
		return nil, fmt.Errorf("create user %s: %w", claims.UID, err)
	}
	return &user, nil
}

// recoverCreate handles the duplicate-login race: two requests for a brand
// new uid both miss the lookup and both insert; the constraint rejects one.
// The loser re-reads the winner's row and falls through to the update path,
// so neither caller sees an error and no duplicate row exists.
func (s *UserService) recoverCreate(ctx context.Context, claims *identity.Claims, requestedRole models.Role, cause error) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("uid = ?", claims.UID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The conflict was not on uid (email already owned by another
		// account). That is a real integrity problem, not a lost race.
		return nil, fmt.Errorf("create user %s: %w", claims.UID, cause)
	}
	if err != nil {
		return nil, fmt.Errorf("re-read user %s after conflict: %w", claims.UID, err)
	}
	return s.update(ctx, &existing, claims, requestedRole)
}

func (s *UserService) update(ctx context.Context, user *models.User, claims *identity.Claims, requestedRole models.Role) (*models.User, error) {
	now := time.Now().UTC()
	changes := map[string]interface{}{
		"email_verified": claims.EmailVerified,
		"last_login_at":  now,
		"updated_at":     now,
	}
	user.EmailVerified = claims.EmailVerified
	user.LastLoginAt = now
	user.UpdatedAt = now

	// Absent claim fields leave the stored values untouched; a login from a
	// provider that omits a field must never clear it.
	if claims.Name != "" {
		changes["name"] = claims.Name
		user.Name = claims.Name
	}
	if claims.Email != "" {
		changes["email"] = claims.Email
		user.Email = &claims.Email
	}
	if claims.Picture != "" {
		changes["picture"] = claims.Picture
		user.Picture = &claims.Picture
	}
	if claims.SignInProvider != "" {
		changes["sign_in_provider"] = claims.SignInProvider
		user.SignInProvider = &claims.SignInProvider
	}
	if claims.Tenant != "" {
		changes["tenant"] = claims.Tenant
		user.Tenant = &claims.Tenant
	}
	if requestedRole != "" && requestedRole != user.Role {
		changes["role"] = requestedRole
		user.Role = requestedRole
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update user %s: %w", claims.UID, err)
	}
	return user, nil
}

func displayName(claims *identity.Claims) string {
	if claims.Name != "" {
		return claims.Name
	}
	return placeholderName
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
