package service

import (
	"context"
	"errors"
	"testing"

	"informatch/internal/cache"
	"informatch/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_MeProvisionsOnce(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var stored *models.User
	repo := &userRepoStub{
		getByIDFn: func(context.Context, uuid.UUID) (*models.User, error) {
			if stored == nil {
				return nil, models.NewNotFoundError("User", id)
			}
			cp := *stored
			return &cp, nil
		},
		ensureFn: func(_ context.Context, u *models.User) (*models.User, error) {
			stored = u
			return u, nil
		},
	}
	c, _ := newProfileCache(t)
	svc := NewUserService(repo, c)

	user, err := svc.Me(context.Background(), Identity{UserID: id, Email: "ada@example.edu", EmailVerified: true})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.edu", user.Email)
	assert.True(t, user.EmailVerified)
	assert.True(t, user.ShowAge, "new users show their age")
	assert.True(t, user.ShowBio)
	assert.False(t, user.IsPrivate)

	stored.Email = "changed@example.edu"
	again, err := svc.Me(context.Background(), Identity{UserID: id})
	require.NoError(t, err)
	assert.Equal(t, "changed@example.edu", again.Email)
}

func TestUserService_EnsureRejectsNilSubject(t *testing.T) {
	t.Parallel()
	_, err := NewUserService(&userRepoStub{}, nil).Ensure(context.Background(), Identity{})
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestUserService_UpdatePrivacy(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	on := true
	var got models.PrivacySettings
	repo := &userRepoStub{updatePrivacyFn: func(_ context.Context, _ uuid.UUID, s models.PrivacySettings) (*models.User, error) {
		got = s
		return &models.User{ID: id, IsPrivate: *s.IsPrivate, ShowAge: true, ShowBio: true}, nil
	}}
	c, mr := newProfileCache(t)
	require.NoError(t, mr.Set(cache.ProfileKey(id), "{}"))
	svc := NewUserService(repo, c)

	_, err := svc.UpdatePrivacy(context.Background(), id, models.PrivacySettings{})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	user, err := svc.UpdatePrivacy(context.Background(), id, models.PrivacySettings{IsPrivate: &on})
	require.NoError(t, err)
	assert.True(t, user.IsPrivate)
	assert.Nil(t, got.ShowAge)
	assert.False(t, mr.Exists(cache.ProfileKey(id)))
}

func TestUserService_UpdatePrivacyErrorPropagates(t *testing.T) {
	t.Parallel()
	repoErr := errors.New("db connection error")
	on := false
	repo := &userRepoStub{updatePrivacyFn: func(context.Context, uuid.UUID, models.PrivacySettings) (*models.User, error) {
		return nil, repoErr
	}}
	_, err := NewUserService(repo, nil).UpdatePrivacy(context.Background(), uuid.New(), models.PrivacySettings{ShowBio: &on})
	assert.ErrorIs(t, err, repoErr)
}
