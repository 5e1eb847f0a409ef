package service

import (
	"context"
	"strings"
	"time"

	"informatch/internal/cache"
	"informatch/internal/models"
	"informatch/internal/repository"
	"informatch/internal/validation"

	"github.com/google/uuid"
)

// ProfileInput is the body of a profile save.
type ProfileInput struct {
	Username             string `json:"username"`
	Bio                  string `json:"bio"`
	Birthdate            string `json:"birthdate"`
	AcademicInterests    string `json:"academic_interests"`
	NonAcademicInterests string `json:"non_academic_interests"`
	LookingFor           string `json:"looking_for"`
	Gender               string `json:"gender"`
	Phone                string `json:"phone"`
}

// normalize trims the input and checks every field, returning the parsed
// birthdate.
func (in *ProfileInput) normalize(now time.Time) (time.Time, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Bio = strings.TrimSpace(in.Bio)
	in.AcademicInterests = strings.TrimSpace(in.AcademicInterests)
	in.NonAcademicInterests = strings.TrimSpace(in.NonAcademicInterests)
	in.LookingFor = strings.TrimSpace(in.LookingFor)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validation.ValidateUsername(in.Username); err != nil {
		return time.Time{}, models.NewValidationError(err.Error())
	}
	birthdate, err := validation.ParseBirthdate(in.Birthdate, now)
	if err != nil {
		return time.Time{}, models.NewValidationError(err.Error())
	}
	limits := []struct {
		field string
		value string
		limit int
	}{
		{"bio", in.Bio, validation.MaxBioLength},
		{"academic_interests", in.AcademicInterests, validation.MaxInterestsLength},
		{"non_academic_interests", in.NonAcademicInterests, validation.MaxInterestsLength},
		{"looking_for", in.LookingFor, validation.MaxLookingForLength},
		{"gender", in.Gender, validation.MaxGenderLength},
		{"phone", in.Phone, validation.MaxPhoneLength},
	}
	for _, l := range limits {
		if err := validation.MaxLength(l.field, l.value, l.limit); err != nil {
			return time.Time{}, models.NewValidationError(err.Error())
		}
	}
	return birthdate, nil
}

// ProfileService creates, updates and serves profiles.
type ProfileService struct {
	profiles repository.ProfileRepository
	blocks   repository.BlockRepository
	cache    *cache.Cache
	now      func() time.Time
}

// NewProfileService returns a new ProfileService. profileCache may be nil.
func NewProfileService(profiles repository.ProfileRepository, blocks repository.BlockRepository, profileCache *cache.Cache) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		blocks:   blocks,
		cache:    profileCache,
		now:      time.Now,
	}
}

// Save creates userID's profile on first call and updates it afterwards.
// The caller must have provisioned the user row.
func (s *ProfileService) Save(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.ProfileView, bool, error) {
	birthdate, err := in.normalize(s.now())
	if err != nil {
		return nil, false, err
	}

	existing, err := s.profiles.GetByUserID(ctx, userID)
	created := false
	switch {
	case err == nil:
		existing.Username = in.Username
		existing.Bio = in.Bio
		existing.Birthdate = birthdate
		existing.AcademicInterests = in.AcademicInterests
		existing.NonAcademicInterests = in.NonAcademicInterests
		existing.LookingFor = in.LookingFor
		existing.Gender = in.Gender
		existing.Phone = in.Phone
		if err := s.profiles.Update(ctx, existing); err != nil {
			return nil, false, err
		}
	case models.HasCode(err, models.CodeNotFound):
		profile := &models.Profile{
			UserID:               userID,
			Username:             in.Username,
			Bio:                  in.Bio,
			Birthdate:            birthdate,
			AcademicInterests:    in.AcademicInterests,
			NonAcademicInterests: in.NonAcademicInterests,
			LookingFor:           in.LookingFor,
			Gender:               in.Gender,
			Phone:                in.Phone,
			Images:               []string{},
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, false, err
		}
		created = true
	default:
		return nil, false, err
	}

	s.Invalidate(ctx, userID)
	view, err := s.GetOwn(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

// GetOwn returns the caller's profile with every field visible.
func (s *ProfileService) GetOwn(ctx context.Context, userID uuid.UUID) (*models.ProfileView, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := profile.View(true)
	return &view, nil
}

// GetForViewer returns targetID's profile as viewerID may see it. Blocks in
// either direction hide the profile entirely.
func (s *ProfileService) GetForViewer(ctx context.Context, viewerID, targetID uuid.UUID) (*models.ProfileView, error) {
	if viewerID == targetID {
		return s.GetOwn(ctx, viewerID)
	}
	blocked, err := s.blocks.EitherBlocked(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, models.NewNotFoundError("Profile", targetID)
	}

	// The owner's full view is cached and filtered per request.
	var full models.ProfileView
	err = s.cache.Aside(ctx, cache.ProfileKey(targetID), &full, cache.ProfileTTL, func() error {
		profile, err := s.profiles.GetByUserID(ctx, targetID)
		if err != nil {
			return err
		}
		full = profile.View(true)
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := full.ForViewer(false)
	return &view, nil
}

// Invalidate drops the cached profile of userID.
func (s *ProfileService) Invalidate(ctx context.Context, userID uuid.UUID) {
	s.cache.Invalidate(ctx, cache.ProfileKey(userID))
}
