// Package handlertest wires a complete in-memory authentication stack for handler tests.
package handlertest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/db/controller/user"
	"github.com/taskflow-app/taskflow/internal/db/models"
	authmiddleware "github.com/taskflow-app/taskflow/internal/web/middleware/auth"
	"github.com/taskflow-app/taskflow/internal/web/session"
)

// HashParams are cheap argon2id parameters for tests.
var HashParams = &argon2id.Params{ //nolint:gochecknoglobals
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Views is a minimal Fiber Views engine. It writes the template name and the
// Notice, Email and Name fields, so tests can assert what a handler rendered.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	_, _ = fmt.Fprintf(w, "template=%s\n", name)

	m, ok := data.(fiber.Map)
	if !ok {
		return nil
	}

	for _, key := range []string{"Notice", "Email", "Name"} {
		if v, exists := m[key]; exists && v != nil {
			_, _ = fmt.Fprintf(w, "%s=%v\n", strings.ToLower(key), v)
		}
	}

	return nil
}

// Storage is an in-memory fiber.Storage.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*Storage)(nil)

// Get implements fiber.Storage.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data[key], nil
}

// Set implements fiber.Storage.
func (s *Storage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), val...)

	return nil
}

// Delete implements fiber.Storage.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Reset implements fiber.Storage.
func (s *Storage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

// Close implements fiber.Storage.
func (s *Storage) Close() error { return nil }

// Len returns the number of stored sessions.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Env is a Fiber app with the session middleware installed, backed by sqlite in memory.
type Env struct {
	App      *fiber.App
	Cfg      *config.Config
	DB       *gorm.DB
	Users    *user.Store
	Storage  *Storage
	Sessions *session.Manager
	Flow     *auth.Controller
}

// NewConfig returns a config suitable for handler tests.
func NewConfig() *config.Config {
	return &config.Config{
		Title: "TaskFlow",
		Webserver: config.Webserver{
			URL:  "http://localhost",
			Port: 3000,
			Session: config.Session{
				ExpiryTime:         time.Hour,
				RememberExpiryTime: 24 * time.Hour,
			},
		},
	}
}

// New creates the environment. Handlers are registered by the caller on env.App.
func New(t *testing.T) *Env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}), "failed to migrate user model")

	cfg := NewConfig()
	storage := &Storage{data: make(map[string][]byte)}
	users := user.New(db)
	sessions := session.NewManager(storage, cfg.Webserver.Session)

	flow, err := auth.NewController(users, sessions, auth.WithHashParams(HashParams))
	require.NoError(t, err)

	app := fiber.New(fiber.Config{Views: Views{}})
	app.Use(authmiddleware.Middleware(sessions, !cfg.DevMode))

	return &Env{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Users:    users,
		Storage:  storage,
		Sessions: sessions,
		Flow:     flow,
	}
}

// CreateUser signs up a user without a session.
func (e *Env) CreateUser(t *testing.T, email, name, password string) {
	t.Helper()

	_, err := e.Flow.Signup(context.Background(), auth.SignupInput{
		Email:           email,
		Name:            name,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
}

// Login establishes a session for an existing user and returns its cookie.
func (e *Env) Login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	res, err := e.Flow.Login(context.Background(), auth.LoginInput{Email: email, Password: password})
	require.NoError(t, err)

	return &http.Cookie{Name: session.CookieName, Value: res.Session.ID}
}

// Get performs a GET request.
func (e *Env) Get(t *testing.T, target string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)

	return e.do(t, req, cookies)
}

// PostForm performs a form encoded POST request.
func (e *Env) PostForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return e.do(t, req, cookies)
}

func (e *Env) do(t *testing.T, req *http.Request, cookies []*http.Cookie) *http.Response {
	t.Helper()

	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

// Body reads and closes the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

// Cookie returns the response cookie called name, nil if not set.
func Cookie(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}

	return nil
}
