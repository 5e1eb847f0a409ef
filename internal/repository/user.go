// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"informatch/internal/models"
	"informatch/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Ensure(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePrivacy(ctx context.Context, id uuid.UUID, settings models.PrivacySettings) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Ensure upserts the identity fields from token claims and returns the
// stored row. Privacy flags of an existing row are left untouched.
func (r *userRepository) Ensure(ctx context.Context, user *models.User) (*models.User, error) {
	defer observability.TrackQuery("upsert", "users")()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "phone", "email_verified", "phone_verified", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, translate(err, "User", user.ID)
	}
	return r.GetByID(ctx, user.ID)
}

func (r *userRepository) UpdatePrivacy(ctx context.Context, id uuid.UUID, settings models.PrivacySettings) (*models.User, error) {
	defer observability.TrackQuery("update", "users")()
	if settings.Empty() {
		return r.GetByID(ctx, id)
	}
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Updates(settings.Updates())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&user, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
