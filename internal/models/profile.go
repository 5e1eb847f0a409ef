package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the wire format for birthdates.
const DateLayout = "2006-01-02"

// MaxProfileImages is the number of photo slots on a profile.
const MaxProfileImages = 3

// Profile is the public-facing description of a user. One per user.
type Profile struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Username             string    `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Bio                  string    `gorm:"type:text;not null;default:''" json:"bio"`
	Birthdate            time.Time `gorm:"type:date;not null" json:"birthdate"`
	AcademicInterests    string    `gorm:"type:text;not null;default:''" json:"academic_interests"`
	NonAcademicInterests string    `gorm:"type:text;not null;default:''" json:"non_academic_interests"`
	LookingFor           string    `gorm:"size:200;not null;default:''" json:"looking_for"`
	AvatarURL            string    `gorm:"type:text;not null;default:''" json:"avatar_url"`
	Gender               string    `gorm:"size:32;not null;default:''" json:"gender"`
	Phone                string    `gorm:"size:32;not null;default:''" json:"phone"`
	Images               []string  `gorm:"type:text;serializer:json" json:"images"`
	MediaVersion         int       `gorm:"not null;default:0" json:"-"`
	CreatedAt            time.Time `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns the profile ID.
func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// ProfileView is a profile as seen by a particular viewer, with the owner's
// privacy flags applied.
type ProfileView struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	Username             string    `json:"username"`
	Bio                  string    `json:"bio"`
	Birthdate            *string   `json:"birthdate"`
	AcademicInterests    string    `json:"academic_interests"`
	NonAcademicInterests string    `json:"non_academic_interests"`
	LookingFor           string    `json:"looking_for"`
	AvatarURL            string    `json:"avatar_url"`
	Gender               string    `json:"gender"`
	Phone                string    `json:"phone"`
	Images               []string  `json:"images"`
	IsPrivate            bool      `json:"is_private"`
	ShowAge              bool      `json:"show_age"`
	ShowBio              bool      `json:"show_bio"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Privacy returns the owner's flags, falling back to defaults when the user
// row was not loaded.
func (p *Profile) Privacy() (isPrivate, showAge, showBio bool) {
	if p.User == nil {
		return false, true, true
	}
	return p.User.IsPrivate, p.User.ShowAge, p.User.ShowBio
}

// BirthdateString formats the birthdate, or returns nil when unset.
func (p *Profile) BirthdateString() *string {
	if p.Birthdate.IsZero() {
		return nil
	}
	s := p.Birthdate.Format(DateLayout)
	return &s
}

// View renders the profile for a viewer. Owners always see every field.
func (p *Profile) View(owner bool) ProfileView {
	isPrivate, showAge, showBio := p.Privacy()
	images := p.Images
	if images == nil {
		images = []string{}
	}
	v := ProfileView{
		ID:                   p.ID,
		UserID:               p.UserID,
		Username:             p.Username,
		Bio:                  p.Bio,
		Birthdate:            p.BirthdateString(),
		AcademicInterests:    p.AcademicInterests,
		NonAcademicInterests: p.NonAcademicInterests,
		LookingFor:           p.LookingFor,
		AvatarURL:            p.AvatarURL,
		Gender:               p.Gender,
		Phone:                p.Phone,
		Images:               images,
		IsPrivate:            isPrivate,
		ShowAge:              showAge,
		ShowBio:              showBio,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	return v.ForViewer(owner)
}

// ForViewer blanks the fields the owner has hidden unless the viewer is the
// owner. Hidden bio becomes empty and hidden birthdate becomes null.
func (v ProfileView) ForViewer(owner bool) ProfileView {
	if owner {
		return v
	}
	if !v.ShowBio {
		v.Bio = ""
	}
	if !v.ShowAge {
		v.Birthdate = nil
	}
	return v
}

// ProfileSummary is the compact form embedded in request and match listings.
type ProfileSummary struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
}

// Summary returns the compact form of the profile.
func (p *Profile) Summary() *ProfileSummary {
	if p == nil {
		return nil
	}
	return &ProfileSummary{UserID: p.UserID, Username: p.Username, AvatarURL: p.AvatarURL}
}
