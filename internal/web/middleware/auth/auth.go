package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/web/session"
)

const (
	// LocalsKey is the fiber.Locals key holding the current *auth.Session.
	LocalsKey = "CurrentSession"

	staticPrefix = "/static"
)

// Resolver looks up a session by ID.
type Resolver interface {
	Lookup(ctx context.Context, id string) (*auth.Session, error)
}

// Middleware resolves the session cookie and stores the session in fiber.Locals.
// Unknown or expired sessions clear the cookie, the request continues anonymously.
func Middleware(resolver Resolver, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(strings.ToLower(c.Path()), staticPrefix) {
			return c.Next()
		}

		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return c.Next()
		}

		sess, err := resolver.Lookup(c.UserContext(), sessionID)

		switch {
		case err == nil:
			c.Locals(LocalsKey, sess)
		case errors.Is(err, session.ErrSessionNotFound):
			session.ClearCookie(c, secure)
		default:
			log.Error().Err(err).Msg("failed to resolve session")
		}

		return c.Next()
	}
}

// CurrentSession returns the session resolved by Middleware, nil for anonymous requests.
func CurrentSession(c *fiber.Ctx) *auth.Session {
	sess, ok := c.Locals(LocalsKey).(*auth.Session)
	if !ok {
		return nil
	}

	return sess
}

// RequireAuthenticated redirects anonymous requests to loginPath.
func RequireAuthenticated(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c) == nil {
			return c.Redirect(loginPath)
		}

		return c.Next()
	}
}

// RedirectAuthenticated redirects logged in users to homePath.
func RedirectAuthenticated(homePath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c) != nil {
			return c.Redirect(homePath)
		}

		return c.Next()
	}
}
