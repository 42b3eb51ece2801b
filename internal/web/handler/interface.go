package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, flow AuthFlow) error
}

// AuthFlow is the authentication flow the handlers drive.
type AuthFlow interface {
	Login(ctx context.Context, in auth.LoginInput) (*auth.LoginResult, error)
	Signup(ctx context.Context, in auth.SignupInput) (*auth.SignupResult, error)
	Logout(ctx context.Context, sess *auth.Session) error
}

// Notice resolves err into the response status and the notice shown to the user.
// Infrastructure faults are logged and answered with a generic notice.
func Notice(c *fiber.Ctx, err error) (int, string) {
	if rej, ok := auth.AsRejection(err); ok {
		return fiber.StatusOK, rej.Notice
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

	return fiber.StatusInternalServerError, InternalErrorNotice
}
