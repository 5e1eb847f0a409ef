package service

import (
	"context"

	"informatch/internal/cache"
	"informatch/internal/models"
	"informatch/internal/repository"

	"github.com/google/uuid"
)

// Identity is what the access token says about the caller.
type Identity struct {
	UserID        uuid.UUID
	Email         string
	Phone         *string
	EmailVerified bool
	PhoneVerified bool
}

// UserService provisions users and manages their privacy settings.
type UserService struct {
	users repository.UserRepository
	cache *cache.Cache
}

// NewUserService returns a new UserService. profileCache may be nil.
func NewUserService(users repository.UserRepository, profileCache *cache.Cache) *UserService {
	return &UserService{users: users, cache: profileCache}
}

// Ensure upserts the caller's user row from their token identity. Privacy
// settings of an existing row are left untouched.
func (s *UserService) Ensure(ctx context.Context, id Identity) (*models.User, error) {
	if id.UserID == uuid.Nil {
		return nil, models.NewUnauthorizedError("invalid subject claim")
	}
	user := models.NewUser(id.UserID, id.Email, id.Phone)
	user.EmailVerified = id.EmailVerified
	user.PhoneVerified = id.PhoneVerified
	out, err := s.users.Ensure(ctx, user)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.UserKey(id.UserID))
	return out, nil
}

// GetByID returns the user record, served from cache when possible.
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.cache.Aside(ctx, cache.UserKey(userID), &user, cache.UserTTL, func() error {
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePrivacy applies a partial privacy update and drops the cached
// profile so viewers see the change immediately.
func (s *UserService) UpdatePrivacy(ctx context.Context, userID uuid.UUID, settings models.PrivacySettings) (*models.User, error) {
	if settings.Empty() {
		return nil, models.NewValidationError("No privacy settings provided")
	}
	user, err := s.users.UpdatePrivacy(ctx, userID, settings)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ProfileKey(userID), cache.UserKey(userID))
	return user, nil
}

// Me returns the caller's user record, provisioning it on first use.
func (s *UserService) Me(ctx context.Context, id Identity) (*models.User, error) {
	user, err := s.GetByID(ctx, id.UserID)
	if err == nil {
		return user, nil
	}
	if !models.HasCode(err, models.CodeNotFound) {
		return nil, err
	}
	return s.Ensure(ctx, id)
}
