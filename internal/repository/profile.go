package repository

import (
	"context"

	"informatch/internal/models"
	"informatch/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles. Every read
// preloads the owning user so privacy flags are available.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	ListExcluding(ctx context.Context, exclude []uuid.UUID) ([]models.Profile, error)
	ListByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error)
	UpdateMedia(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()
	var profile models.Profile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err, "Profile", userID)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("insert", "profiles")()
	if err := r.db.WithContext(ctx).Omit("User").Create(profile).Error; err != nil {
		return profileWriteError(err, profile.UserID)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("update", "profiles")()
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND user_id = ?", profile.ID, profile.UserID).
		Select("username", "bio", "birthdate", "academic_interests", "non_academic_interests",
			"looking_for", "gender", "phone", "updated_at").
		Updates(profile)
	if res.Error != nil {
		return profileWriteError(res.Error, profile.UserID)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Profile", profile.UserID)
	}
	return nil
}

func profileWriteError(err error, userID uuid.UUID) error {
	if isUniqueConstraintError(err) {
		if violatedColumn(err, "username") {
			return models.NewConflictError("Username is already taken")
		}
		return models.NewConflictError("Profile already exists")
	}
	return translate(err, "Profile", userID)
}

// ListExcluding returns every profile whose owner is not in exclude, in
// creation order with the id as tie-breaker.
func (r *profileRepository) ListExcluding(ctx context.Context, exclude []uuid.UUID) ([]models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()
	q := r.db.WithContext(ctx).Preload("User")
	if len(exclude) > 0 {
		q = q.Where("user_id NOT IN ?", exclude)
	}
	var profiles []models.Profile
	if err := q.Order("created_at ASC").Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) ListByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return []models.Profile{}, nil
	}
	defer observability.TrackQuery("select", "profiles")()
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// UpdateMedia writes the image list and avatar only if nobody else changed
// them since profile was read, and bumps MediaVersion on success. A stale
// version yields a conflict so the caller can reload and retry. The struct
// form of Updates is used so the JSON serializer runs.
func (r *profileRepository) UpdateMedia(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("update", "profiles")()
	images := profile.Images
	if images == nil {
		images = []string{}
	}
	next := profile.MediaVersion + 1
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ? AND media_version = ?", profile.UserID, profile.MediaVersion).
		Select("images", "avatar_url", "media_version", "updated_at").
		Updates(&models.Profile{Images: images, AvatarURL: profile.AvatarURL, MediaVersion: next})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", profile.UserID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Profile", profile.UserID)
		}
		return models.NewConflictError("Profile images changed concurrently")
	}
	profile.Images = images
	profile.MediaVersion = next
	return nil
}
