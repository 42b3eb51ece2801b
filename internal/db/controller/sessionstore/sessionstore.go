// Package sessionstore implements fiber.Storage on top of gorm. It backs sessions on
// sqlite, where the gofiber sqlite3 driver would pull in cgo through mattn/go-sqlite3.
package sessionstore

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskflow-app/taskflow/internal/db/models"
)

const (
	idQueryPattern = "id = ?"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Storage keeps session blobs in the sessions table.
type Storage struct {
	db  *gorm.DB
	now func() time.Time
}

var _ fiber.Storage = (*Storage)(nil)

// New creates the storage and migrates its table.
func New(db *gorm.DB) (*Storage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := db.AutoMigrate(&models.SessionRecord{}); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Storage{db: db, now: time.Now}, nil
}

// Get returns the value for key, nil for missing or expired keys.
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var rec models.SessionRecord

	result := s.db.Where(idQueryPattern, key).First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	if rec.ExpiresAt != 0 && rec.ExpiresAt <= s.now().Unix() {
		// expired rows are removed lazily
		_ = s.Delete(key)
		return nil, nil
	}

	return rec.Data, nil
}

// Set stores val under key, exp 0 means no expiry.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	rec := models.SessionRecord{ID: key, Data: val}
	if exp > 0 {
		rec.ExpiresAt = s.now().Add(exp).Unix()
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&rec).Error
}

// Delete removes key.
func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}

	return s.db.Where(idQueryPattern, key).Delete(&models.SessionRecord{}).Error
}

// Reset removes all sessions.
func (s *Storage) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SessionRecord{}).Error
}

// DeleteExpired removes expired sessions and returns how many were removed.
func (s *Storage) DeleteExpired() (int64, error) {
	result := s.db.Where("expires_at <> 0 AND expires_at <= ?", s.now().Unix()).Delete(&models.SessionRecord{})
	return result.RowsAffected, result.Error
}

// Close is a no-op, the gorm connection belongs to the caller.
func (s *Storage) Close() error {
	return nil
}
