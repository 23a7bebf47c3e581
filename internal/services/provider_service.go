package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/serviceloop/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

// ProviderService lazily provisions the one-to-one provider profile behind
// elevated-role users.
type ProviderService struct {
	db *gorm.DB
}

func NewProviderService(db *gorm.DB) *ProviderService {
	return &ProviderService{db: db}
}

// Ensure returns the user's provider profile, creating it on first call.
// Non-elevated roles get nil and no write. An existing profile is returned
// as is; it is never re-seeded from the user.
func (s *ProviderService) Ensure(ctx context.Context, user *models.User) (*models.ProviderProfile, error) {
	if !user.Role.Elevated() {
		return nil, nil
	}

	var profile models.ProviderProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup provider profile for user %s: %w", user.ID, err)
	}

	return s.create(ctx, user)
}

func (s *ProviderService) create(ctx context.Context, user *models.User) (*models.ProviderProfile, error) {
	profile := models.ProviderProfile{
		ID:           uuid.New(),
		UserID:       user.ID,
		BusinessName: user.Name,
		ContactEmail: user.Email,
		ProviderType: "individual",
		Status:       models.ProviderStatusActive,
		IsAvailable:  true,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent provisioning race; the other insert won.
			return s.reread(ctx, user.ID)
		}
		return nil, fmt.Errorf("create provider profile for user %s: %w", user.ID, err)
	}
	return &profile, nil
}

func (s *ProviderService) reread(ctx context.Context, userID uuid.UUID) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("re-read provider profile for user %s after conflict: %w", userID, err)
	}
	return &profile, nil
}
