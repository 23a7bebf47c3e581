package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderProfile account status values.
const (
	ProviderStatusActive    = "active"
	ProviderStatusInactive  = "inactive"
	ProviderStatusSuspended = "suspended"
)

// ProviderProfile is the one-to-one business record behind a provider-role
// user. It is seeded from the user at creation and edited independently
// afterwards; sync never re-seeds or deletes it.
type ProviderProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User         User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BusinessName string    `gorm:"size:255;not null" json:"business_name"`
	ContactEmail *string   `gorm:"size:255" json:"contact_email"`
	ProviderType string    `gorm:"size:20;not null;default:'individual'" json:"provider_type"`
	Status       string    `gorm:"size:20;not null;default:'active';index" json:"status"`
	IsAvailable  bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}
