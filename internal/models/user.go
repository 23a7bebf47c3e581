package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes service requesters from service providers.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// ParseRole maps a raw claim value onto a known role tier. Unknown values
// are rejected so a forged or mistyped claim can never mint a new tier.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleProvider:
		return Role(s), true
	}
	return "", false
}

// Elevated reports whether the role requires a dependent provider profile.
func (r Role) Elevated() bool {
	return r == RoleProvider
}

// VerificationStatus is the trust state of a user account. Sync never
// mutates it; verification is a separate workflow.
type VerificationStatus string

const (
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationUnverified VerificationStatus = "unverified"
)

// User is one authenticated principal, keyed by the identity provider's
// stable UID. Exactly one row per UID, enforced by the unique index.
type User struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UID                string             `gorm:"size:128;not null;uniqueIndex" json:"uid"`
	Name               string             `gorm:"size:255;not null" json:"name"`
	Email              *string            `gorm:"size:255;uniqueIndex" json:"email"`
	EmailVerified      bool               `gorm:"not null;default:false" json:"email_verified"`
	Picture            *string            `gorm:"size:512" json:"picture"`
	SignInProvider     *string            `gorm:"size:50" json:"sign_in_provider"`
	Tenant             *string            `gorm:"size:100;index" json:"tenant"`
	Role               Role               `gorm:"size:20;not null;default:'client';index" json:"role"`
	VerificationStatus VerificationStatus `gorm:"size:20;not null;default:'pending'" json:"verification_status"`
	LastLoginAt        time.Time          `gorm:"index" json:"last_login_at"`
	CreatedAt          time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
