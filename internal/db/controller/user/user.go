// Package user persists and looks up user accounts.
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskflow-app/taskflow/internal/db/models"
)

const (
	emailQueryPattern = "email = ?"
)

var (
	// ErrUserNotFound is returned when no user has the requested email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating a user whose email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrEmailEmpty is returned when a lookup or create has no email.
	ErrEmailEmpty = errors.New("user email cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Store is the gorm backed credential store.
type Store struct {
	db *gorm.DB
}

// New creates a store on db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByEmail retrieves a user by email, compared case-insensitively.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var u models.User

	result := s.db.WithContext(ctx).Where(emailQueryPattern, email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to query user: %w", result.Error)
	}

	return &u, nil
}

// Exists reports whether a user with email is registered.
func (s *Store) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Create inserts u. The unique index on email decides races between concurrent signups,
// the pre-check only avoids a failing insert in the common case.
func (s *Store) Create(ctx context.Context, u *models.User) error {
	if s.db == nil {
		return ErrDBNil
	}

	if u == nil || models.NormalizeEmail(u.Email) == "" {
		return ErrEmailEmpty
	}

	exists, err := s.Exists(ctx, u.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	if exists {
		return ErrEmailTaken
	}

	if err = s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}

		// not every driver translates constraint errors, ask again
		if taken, lookupErr := s.Exists(ctx, u.Email); lookupErr == nil && taken {
			return ErrEmailTaken
		}

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Count returns the number of registered users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrDBNil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
