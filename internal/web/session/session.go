// Package session establishes, resolves and destroys login sessions kept in a fiber.Storage.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/db/models"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	idBytes = 32
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStorageNil is returned when the manager has no storage.
	ErrStorageNil = errors.New("session storage is nil")
	// ErrUserNil is returned when establishing a session without a user.
	ErrUserNil = errors.New("user is nil")
)

// Manager keeps sessions JSON encoded in storage under their ID.
type Manager struct {
	storage fiber.Storage
	cfg     config.Session
	now     func() time.Time
}

var _ auth.SessionAuthority = (*Manager)(nil)

// NewManager creates a manager on storage.
func NewManager(storage fiber.Storage, cfg config.Session) *Manager {
	return &Manager{
		storage: storage,
		cfg:     cfg,
		now:     time.Now,
	}
}

// lifetime returns the TTL for a session.
func (m *Manager) lifetime(remember bool) time.Duration {
	if remember {
		return m.cfg.RememberExpiryTime
	}

	return m.cfg.ExpiryTime
}

// Establish creates and stores a new session for u.
func (m *Manager) Establish(_ context.Context, u *models.User, remember bool) (*auth.Session, error) {
	if m.storage == nil {
		return nil, ErrStorageNil
	}

	if u == nil {
		return nil, ErrUserNil
	}

	id, err := GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	var (
		now = m.now()
		ttl = m.lifetime(remember)
	)

	sess := &auth.Session{
		ID:        id,
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	out, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	if err = m.storage.Set(id, out, ttl); err != nil {
		return nil, fmt.Errorf("failed to write session: %w", err)
	}

	return sess, nil
}

// Lookup resolves id to its session.
func (m *Manager) Lookup(_ context.Context, id string) (*auth.Session, error) {
	if m.storage == nil {
		return nil, ErrStorageNil
	}

	if id == "" {
		return nil, ErrSessionNotFound
	}

	raw, err := m.storage.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if len(raw) == 0 {
		return nil, ErrSessionNotFound
	}

	sess := new(auth.Session)
	if err = json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	// storages without native TTL support may hand back stale entries
	if sess.UserID == 0 || sess.Expired(m.now()) {
		_ = m.storage.Delete(id)
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// Destroy removes sess from storage.
func (m *Manager) Destroy(_ context.Context, sess *auth.Session) error {
	if m.storage == nil {
		return ErrStorageNil
	}

	if sess == nil || sess.ID == "" {
		return nil
	}

	if err := m.storage.Delete(sess.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// WriteCookie sets the session cookie. Remembered sessions outlive the browser session.
func WriteCookie(c *fiber.Ctx, sess *auth.Session, secure bool) {
	cookie := &fiber.Cookie{
		Name:        CookieName,
		Value:       sess.ID,
		Path:        "/",
		Secure:      secure,
		HTTPOnly:    true,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: !sess.Remember,
	}

	if sess.Remember {
		cookie.Expires = sess.ExpiresAt
		cookie.MaxAge = int(time.Until(sess.ExpiresAt).Seconds())
	}

	c.Cookie(cookie)
}

// ClearCookie expires the session cookie.
func ClearCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
