package seed

import (
	"context"
	"fmt"
	"log"

	"informatch/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	Profiles int
	Clean    bool
	// RandSeed makes the generated data repeatable when non-zero.
	RandSeed int64
}

// Summary counts what a run created.
type Summary struct {
	Students int
	Matches  int
	Requests int
	Blocks   int
}

// Seed populates the database with demo students and a spread of
// relationships: every third student is matched with the next one, every
// fourth (offset by one) has a pending request to the student two along,
// and every tenth (offset by two) blocks the student three along. The
// offsets never produce the same pair twice.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if opts.Profiles < 0 {
		return nil, fmt.Errorf("profiles must not be negative")
	}
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}

	log.Printf("🌱 Seeding %d student profiles (clean=%t)", opts.Profiles, opts.Clean)
	if opts.Clean {
		if err := ClearAll(ctx, db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	f := NewFactory(db, catalog, opts.RandSeed)
	summary := &Summary{}

	students := make([]*models.Profile, 0, opts.Profiles)
	for i := 0; i < opts.Profiles; i++ {
		p, err := f.CreateStudent(ctx)
		if err != nil {
			return nil, err
		}
		students = append(students, p)
		if (i+1)%100 == 0 {
			log.Printf("Created %d students...", i+1)
		}
	}
	summary.Students = len(students)

	for i, p := range students {
		if i%3 == 0 && i+1 < len(students) {
			if _, err := f.CreateMatch(ctx, p.UserID, students[i+1].UserID); err != nil {
				return nil, err
			}
			summary.Matches++
		}
		if i%4 == 1 && i+2 < len(students) {
			if _, err := f.CreateRequest(ctx, p, students[i+2]); err != nil {
				return nil, err
			}
			summary.Requests++
		}
		if i%10 == 2 && i+3 < len(students) {
			if _, err := f.CreateBlock(ctx, p.UserID, students[i+3].UserID); err != nil {
				return nil, err
			}
			summary.Blocks++
		}
	}

	log.Printf("✓ %d students, %d matches, %d pending requests, %d blocks",
		summary.Students, summary.Matches, summary.Requests, summary.Blocks)
	return summary, nil
}

// ClearAll deletes every row the application owns, children first.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	tx := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{
		&models.Notification{},
		&models.Block{},
		&models.Match{},
		&models.Profile{},
		&models.User{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
