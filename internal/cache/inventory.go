package cache

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProfileKeyPrefix = "profile:user:"
	UserKeyPrefix    = "user:"
)

const (
	ProfileTTL = 5 * time.Minute
	UserTTL    = 5 * time.Minute
)

// ProfileKey caches a user's profile together with its owner's privacy flags.
func ProfileKey(userID uuid.UUID) string {
	return ProfileKeyPrefix + userID.String()
}

// UserKey caches the user record.
func UserKey(userID uuid.UUID) string {
	return UserKeyPrefix + userID.String()
}
