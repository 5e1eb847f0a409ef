// Package seed creates demo users, profiles and relationships for local
// development and tests.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"informatch/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUsernameLength = 30

// Factory builds demo entities and persists them.
type Factory struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	catalog *Catalog
	now     time.Time
	seq     int
}

// NewFactory returns a Factory. A zero randSeed draws a random seed; any
// other value makes the generated data repeatable.
func NewFactory(db *gorm.DB, catalog *Catalog, randSeed int64) *Factory {
	return &Factory{
		db:      db,
		faker:   gofakeit.New(randSeed),
		catalog: catalog,
		now:     time.Now().UTC(),
	}
}

// BuildUser constructs a user with the default privacy settings. Roughly one
// in eight demo users is private.
func (f *Factory) BuildUser(username string) *models.User {
	user := models.NewUser(uuid.New(), username+"@students.example.edu", nil)
	user.EmailVerified = true
	user.IsPrivate = f.faker.Number(1, 8) == 1
	return user
}

// BuildProfile constructs a profile for user without persisting it.
func (f *Factory) BuildProfile(user *models.User, username string) *models.Profile {
	academic := f.pick(f.catalog.AcademicInterests, 2, 5)
	nonAcademic := f.pick(f.catalog.NonAcademicInterests, 1, 4)
	bio := fmt.Sprintf(f.faker.RandomString(f.catalog.Bios), academic[0])

	// Ages 18 to 26 on the seed date.
	birthdate := f.now.AddDate(-f.faker.Number(18, 26), 0, -f.faker.Number(1, 360))

	return &models.Profile{
		UserID:               user.ID,
		Username:             username,
		Bio:                  bio,
		Birthdate:            time.Date(birthdate.Year(), birthdate.Month(), birthdate.Day(), 0, 0, 0, 0, time.UTC),
		AcademicInterests:    strings.Join(academic, ", "),
		NonAcademicInterests: strings.Join(nonAcademic, ", "),
		LookingFor:           f.faker.RandomString(f.catalog.LookingFor),
		Gender:               f.faker.RandomString(f.catalog.Genders),
		AvatarURL:            fmt.Sprintf("https://i.pravatar.cc/300?u=%s", user.ID),
		Images:               []string{},
	}
}

// CreateStudent persists a user and their profile. Overrides run on the
// profile before it is saved.
func (f *Factory) CreateStudent(ctx context.Context, overrides ...func(*models.Profile)) (*models.Profile, error) {
	username := f.NextUsername()
	user := f.BuildUser(username)
	profile := f.BuildProfile(user, username)
	for _, override := range overrides {
		override(profile)
	}

	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create student %s: %w", username, err)
	}
	profile.User = user
	return profile, nil
}

// CreateMatch connects two users.
func (f *Factory) CreateMatch(ctx context.Context, a, b uuid.UUID) (*models.Match, error) {
	match := &models.Match{UserAID: a, UserBID: b}
	if err := f.db.WithContext(ctx).Create(match).Error; err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return match, nil
}

// CreateRequest leaves a pending request from sender to recipient.
func (f *Factory) CreateRequest(ctx context.Context, sender, recipient *models.Profile) (*models.Notification, error) {
	request := models.NewMatchRequest(sender.UserID, recipient.UserID,
		fmt.Sprintf("%s wants to connect with you", sender.Username))
	if err := f.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return request, nil
}

// CreateBlock records that blocker blocks blocked.
func (f *Factory) CreateBlock(ctx context.Context, blocker, blocked uuid.UUID) (*models.Block, error) {
	block := &models.Block{BlockerID: blocker, BlockedID: blocked}
	if err := f.db.WithContext(ctx).Create(block).Error; err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	return block, nil
}

// NextUsername returns a unique username that passes profile validation.
func (f *Factory) NextUsername() string {
	f.seq++
	first := slug(f.faker.FirstName())
	if first == "" {
		first = "student"
	}
	last := slug(f.faker.LastName())
	base := first
	if last != "" {
		base += "_" + last[:1]
	}
	suffix := fmt.Sprintf("%d", f.seq)
	if len(base)+len(suffix) > maxUsernameLength {
		base = base[:maxUsernameLength-len(suffix)]
	}
	return base + suffix
}

// pick returns between minN and maxN distinct entries of list.
func (f *Factory) pick(list []string, minN, maxN int) []string {
	shuffled := append([]string(nil), list...)
	f.faker.ShuffleStrings(shuffled)
	n := f.faker.Number(minN, maxN)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// slug keeps the lower-cased ASCII letters and digits of s.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
