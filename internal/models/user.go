// Package models defines the persistent entities and API payloads.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record. Its ID is the subject issued by the identity
// service; the row is provisioned the first time the account is used here.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string    `gorm:"size:255;index" json:"email"`
	Phone         *string   `gorm:"size:32" json:"phone,omitempty"`
	EmailVerified bool      `gorm:"not null" json:"email_verified"`
	PhoneVerified bool      `gorm:"not null" json:"phone_verified"`
	IsPrivate     bool      `gorm:"not null" json:"is_private"`
	ShowAge       bool      `gorm:"not null" json:"show_age"`
	ShowBio       bool      `gorm:"not null" json:"show_bio"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewUser returns a user with the default privacy settings applied.
func NewUser(id uuid.UUID, email string, phone *string) *User {
	return &User{
		ID:      id,
		Email:   email,
		Phone:   phone,
		ShowAge: true,
		ShowBio: true,
	}
}

// PrivacySettings is a partial update of the privacy flags.
type PrivacySettings struct {
	IsPrivate *bool `json:"is_private"`
	ShowAge   *bool `json:"show_age"`
	ShowBio   *bool `json:"show_bio"`
}

// Empty reports whether no flag is set.
func (p PrivacySettings) Empty() bool {
	return p.IsPrivate == nil && p.ShowAge == nil && p.ShowBio == nil
}

// Updates returns the column map for a GORM Updates call.
func (p PrivacySettings) Updates() map[string]any {
	out := make(map[string]any, 3)
	if p.IsPrivate != nil {
		out["is_private"] = *p.IsPrivate
	}
	if p.ShowAge != nil {
		out["show_age"] = *p.ShowAge
	}
	if p.ShowBio != nil {
		out["show_bio"] = *p.ShowBio
	}
	return out
}

// BeforeCreate rejects users without an identity subject.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		return NewValidationError("user id is required")
	}
	return nil
}
