package models

import "github.com/google/uuid"

// NoProfileMessage is returned instead of suggestions when the requester has
// not created a profile yet.
const NoProfileMessage = "Please complete your profile setup first"

// SuggestionCandidate is one ranked suggestion.
type SuggestionCandidate struct {
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
	ShowAge              bool      `json:"show_age"`
	ShowBio              bool      `json:"show_bio"`
	Score                int       `json:"score"`
}

// SuggestionResult is the ranker's response body.
type SuggestionResult struct {
	Suggestions []SuggestionCandidate `json:"suggestions"`
	Message     string                `json:"message,omitempty"`
}

// NewSuggestionCandidate projects a profile into a candidate with the
// owner's privacy flags applied.
func NewSuggestionCandidate(p *Profile, score int) SuggestionCandidate {
	v := p.View(false)
	return SuggestionCandidate{
		ID:                   p.ID,
		UserID:               p.UserID,
		Username:             p.Username,
		Bio:                  v.Bio,
		Birthdate:            v.Birthdate,
		AcademicInterests:    p.AcademicInterests,
		NonAcademicInterests: p.NonAcademicInterests,
		LookingFor:           p.LookingFor,
		AvatarURL:            p.AvatarURL,
		Gender:               p.Gender,
		Phone:                p.Phone,
		ShowAge:              v.ShowAge,
		ShowBio:              v.ShowBio,
		Score:                score,
	}
}
