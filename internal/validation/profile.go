// Package validation checks user-supplied profile fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits for profile input.
const (
	MaxBioLength        = 500
	MaxInterestsLength  = 500
	MaxLookingForLength = 200
	MaxGenderLength     = 32
	MaxPhoneLength      = 32
	// MinAgeYears rejects birthdates that are obviously wrong.
	MinAgeYears = 13
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)

var reservedUsernames = map[string]struct{}{
	"admin":       {},
	"api":         {},
	"me":          {},
	"matches":     {},
	"suggestions": {},
	"profile":     {},
	"profiles":    {},
	"blocks":      {},
	"users":       {},
	"settings":    {},
	"swagger":     {},
	"metrics":     {},
	"health":      {},
	"support":     {},
	"informatch":  {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, underscores, and dots")
	}

	if strings.HasPrefix(username, ".") || strings.HasSuffix(username, ".") || strings.Contains(username, "..") {
		return fmt.Errorf("username cannot start or end with a dot or contain consecutive dots")
	}

	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}

	return nil
}

// ParseBirthdate parses a YYYY-MM-DD birthdate and rejects future dates and
// users younger than MinAgeYears relative to now.
func ParseBirthdate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("birthdate is required")
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("birthdate must be formatted as YYYY-MM-DD")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return time.Time{}, fmt.Errorf("birthdate cannot be in the future")
	}
	if d.After(today.AddDate(-MinAgeYears, 0, 0)) {
		return time.Time{}, fmt.Errorf("you must be at least %d years old", MinAgeYears)
	}
	return d, nil
}

// MaxLength checks a field's length in characters.
func MaxLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%s must be at most %d characters", field, limit)
	}
	return nil
}
