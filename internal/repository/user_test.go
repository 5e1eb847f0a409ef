package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"informatch/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID_Mock(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := uuid.New()
	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)

	tests := []struct {
		name         string
		mockBehavior func()
		wantCode     string
	}{
		{
			name: "Success",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "email", "show_age", "show_bio"}).
					AddRow(id.String(), "ada@example.edu", true, false)
				mock.ExpectQuery(query).WithArgs(sqlmock.AnyArg(), 1).WillReturnRows(rows)
			},
		},
		{
			name: "Not Found",
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(sqlmock.AnyArg(), 1).WillReturnError(gorm.ErrRecordNotFound)
			},
			wantCode: models.CodeNotFound,
		},
		{
			name: "Driver Error",
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(sqlmock.AnyArg(), 1).WillReturnError(errors.New("connection reset"))
			},
			wantCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, id)

			if tt.wantCode != "" {
				assert.True(t, models.HasCode(err, tt.wantCode), "got %v", err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, id, user.ID)
				assert.Equal(t, "ada@example.edu", user.Email)
				assert.False(t, user.ShowBio)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Ensure(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := uuid.New()

	created, err := repo.Ensure(ctx, models.NewUser(id, "first@example.edu", nil))
	require.NoError(t, err)
	assert.True(t, created.ShowAge)
	assert.True(t, created.ShowBio)
	assert.False(t, created.IsPrivate)

	private := true
	_, err = repo.UpdatePrivacy(ctx, id, models.PrivacySettings{IsPrivate: &private})
	require.NoError(t, err)

	phone := "+15550100"
	again := models.NewUser(id, "second@example.edu", &phone)
	again.EmailVerified = true
	updated, err := repo.Ensure(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, "second@example.edu", updated.Email)
	assert.True(t, updated.EmailVerified)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.True(t, updated.IsPrivate, "re-provisioning must not reset privacy")

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UpdatePrivacy(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedUser(t, db)

	off := false
	got, err := repo.UpdatePrivacy(ctx, u.ID, models.PrivacySettings{ShowBio: &off})
	require.NoError(t, err)
	assert.False(t, got.ShowBio)
	assert.True(t, got.ShowAge)

	got, err = repo.UpdatePrivacy(ctx, u.ID, models.PrivacySettings{})
	require.NoError(t, err)
	assert.False(t, got.ShowBio)

	_, err = repo.UpdatePrivacy(ctx, uuid.New(), models.PrivacySettings{ShowAge: &off})
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
