package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/db/models"
)

// memStorage is a minimal in-memory fiber.Storage recording the TTL of each key.
type memStorage struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttl    map[string]time.Duration
	getErr error
}

var _ fiber.Storage = (*memStorage)(nil)

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte), ttl: make(map[string]time.Duration)}
}

func (s *memStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}

	return s.data[key], nil
}

func (s *memStorage) Set(key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), val...)
	s.ttl[key] = exp

	return nil
}

func (s *memStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	delete(s.ttl, key)

	return nil
}

func (s *memStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)
	s.ttl = make(map[string]time.Duration)

	return nil
}

func (s *memStorage) Close() error { return nil }

var testCfg = config.Session{ //nolint:gochecknoglobals
	ExpiryTime:         time.Hour,
	RememberExpiryTime: 30 * 24 * time.Hour,
}

func testUser() *models.User {
	return &models.User{ID: 7, Email: "a@x.com", Name: "Ann", Password: "hash"}
}

func TestEstablishAndLookup(t *testing.T) {
	storage := newMemStorage()
	m := NewManager(storage, testCfg)
	ctx := context.Background()

	testCases := []struct {
		name     string
		remember bool
		ttl      time.Duration
	}{
		{name: "ephemeral", remember: false, ttl: testCfg.ExpiryTime},
		{name: "remembered", remember: true, ttl: testCfg.RememberExpiryTime},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sess, err := m.Establish(ctx, testUser(), tc.remember)
			require.NoError(t, err)
			assert.Len(t, sess.ID, 2*idBytes)
			assert.Equal(t, uint64(7), sess.UserID)
			assert.Equal(t, tc.remember, sess.Remember)
			assert.Equal(t, tc.ttl, storage.ttl[sess.ID])
			assert.WithinDuration(t, sess.CreatedAt.Add(tc.ttl), sess.ExpiresAt, time.Second)

			raw, err := storage.Get(sess.ID)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "hash", "password hash must not be stored in the session")

			got, err := m.Lookup(ctx, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, sess.ID, got.ID)
			assert.Equal(t, "a@x.com", got.Email)
			assert.Equal(t, "Ann", got.Name)
		})
	}
}

func TestEstablishUniqueIDs(t *testing.T) {
	m := NewManager(newMemStorage(), testCfg)
	seen := make(map[string]struct{})

	for range 50 {
		sess, err := m.Establish(context.Background(), testUser(), false)
		require.NoError(t, err)

		_, dup := seen[sess.ID]
		require.False(t, dup)

		seen[sess.ID] = struct{}{}
	}
}

func TestLookupNotFound(t *testing.T) {
	storage := newMemStorage()
	m := NewManager(storage, testCfg)
	ctx := context.Background()

	_, err := m.Lookup(ctx, "")
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Lookup(ctx, "unknown")
	require.ErrorIs(t, err, ErrSessionNotFound)

	// stale entry left behind by a storage without TTL support
	now := time.Now()
	m.now = func() time.Time { return now }

	sess, err := m.Establish(ctx, testUser(), false)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	_, err = m.Lookup(ctx, sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	raw, _ := storage.Get(sess.ID)
	assert.Nil(t, raw, "expired session must be removed")
}

func TestLookupErrors(t *testing.T) {
	storage := newMemStorage()
	m := NewManager(storage, testCfg)
	ctx := context.Background()

	require.NoError(t, storage.Set("garbage", []byte("{"), 0))

	_, err := m.Lookup(ctx, "garbage")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSessionNotFound)

	boom := errors.New("boom")
	storage.getErr = boom

	_, err = m.Lookup(ctx, "anything")
	require.ErrorIs(t, err, boom)
}

func TestDestroy(t *testing.T) {
	storage := newMemStorage()
	m := NewManager(storage, testCfg)
	ctx := context.Background()

	sess, err := m.Establish(ctx, testUser(), true)
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, sess))

	_, err = m.Lookup(ctx, sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Destroy(ctx, nil))
	require.NoError(t, m.Destroy(ctx, &auth.Session{}))
}

func TestNilStorageAndUser(t *testing.T) {
	ctx := context.Background()

	m := NewManager(nil, testCfg)

	_, err := m.Establish(ctx, testUser(), false)
	require.ErrorIs(t, err, ErrStorageNil)

	_, err = m.Lookup(ctx, "id")
	require.ErrorIs(t, err, ErrStorageNil)

	require.ErrorIs(t, m.Destroy(ctx, &auth.Session{ID: "id"}), ErrStorageNil)

	_, err = NewManager(newMemStorage(), testCfg).Establish(ctx, nil, false)
	require.ErrorIs(t, err, ErrUserNil)
}

func cookieHeader(t *testing.T, handler fiber.Handler) string {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	return strings.ToLower(resp.Header.Get(fiber.HeaderSetCookie))
}

func TestWriteCookie(t *testing.T) {
	now := time.Now()

	ephemeral := &auth.Session{ID: "abc", ExpiresAt: now.Add(time.Hour)}
	remembered := &auth.Session{ID: "def", Remember: true, ExpiresAt: now.Add(24 * time.Hour)}

	header := cookieHeader(t, func(c *fiber.Ctx) error {
		WriteCookie(c, ephemeral, true)
		return nil
	})

	assert.Contains(t, header, "session=abc")
	assert.Contains(t, header, "httponly")
	assert.Contains(t, header, "secure")
	assert.Contains(t, header, "samesite=lax")
	assert.NotContains(t, header, "max-age")
	assert.NotContains(t, header, "expires")

	header = cookieHeader(t, func(c *fiber.Ctx) error {
		WriteCookie(c, remembered, false)
		return nil
	})

	assert.Contains(t, header, "session=def")
	assert.Contains(t, header, "max-age=")
	assert.NotContains(t, header, "secure")
}

func TestClearCookie(t *testing.T) {
	header := cookieHeader(t, func(c *fiber.Ctx) error {
		ClearCookie(c, true)
		return nil
	})

	// a negative MaxAge is sent as max-age=0, which deletes the cookie right away
	assert.Contains(t, header, "session=;")
	assert.Contains(t, header, "max-age=0")
	assert.Contains(t, header, "httponly")
	assert.Contains(t, header, "secure")
}
