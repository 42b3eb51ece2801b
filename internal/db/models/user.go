// Package models contains database model definitions.
package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User represents an account that can sign in with email and password.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Email is the login identifier, stored normalized (see NormalizeEmail).
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Name is the display name, 1 to 20 characters.
	Name string `gorm:"size:80;not null"`
	// Password is the Argon2id encoded hash including its salt, never the plaintext.
	Password string `gorm:"size:255;not null" json:"-"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeSave keeps the stored email normalized whichever code path writes the row.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Emails are compared case-insensitively everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a plaintext password using the Argon2id algorithm with a random salt.
// A nil params uses argon2id.DefaultParams.
func HashPassword(password string, params *argon2id.Params) (string, error) {
	if params == nil {
		params = argon2id.DefaultParams
	}

	return argon2id.CreateHash(password, params) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	return VerifyPasswordHash(password, u.Password)
}

// VerifyPasswordHash compares password against an encoded argon2id hash.
// A malformed hash never matches.
func VerifyPasswordHash(password, hash string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify password")
		return false
	}

	return match
}
