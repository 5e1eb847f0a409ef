package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"informatch/internal/database"
	"informatch/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection to :memory: is a fresh database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	id := uuid.New()
	u := models.NewUser(id, fmt.Sprintf("%s@example.edu", id.String()[:8]), nil)
	require.NoError(t, db.Create(u).Error)
	return u
}

var seedClock = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// seedProfile creates a user and profile; profiles get strictly increasing
// creation times so fetch order is deterministic.
func seedProfile(t *testing.T, db *gorm.DB, username, academic, nonAcademic string) *models.Profile {
	t.Helper()
	u := seedUser(t, db)
	seedClock = seedClock.Add(time.Minute)
	p := &models.Profile{
		UserID:               u.ID,
		Username:             username,
		Birthdate:            time.Date(2002, 5, 17, 0, 0, 0, 0, time.UTC),
		AcademicInterests:    academic,
		NonAcademicInterests: nonAcademic,
		CreatedAt:            seedClock,
	}
	require.NoError(t, NewProfileRepository(db).Create(context.Background(), p))
	return p
}
