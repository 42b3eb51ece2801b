// Package logout provides the logout handler.
package logout

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/web/flash"
	"github.com/taskflow-app/taskflow/internal/web/handler"
	"github.com/taskflow-app/taskflow/internal/web/handler/login"
	authmiddleware "github.com/taskflow-app/taskflow/internal/web/middleware/auth"
	"github.com/taskflow-app/taskflow/internal/web/session"
)

const (
	// Path is the path to the logout page.
	Path = handler.RootPath + "logout"

	// SuccessNotice is shown on the login form after logging out.
	SuccessNotice = "You have logged out successfully."
)

// Service is the logout handler service.
type Service struct {
	cfg  *config.Config
	flow handler.AuthFlow
}

var _ handler.Service = (*Service)(nil)

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, flow handler.AuthFlow) error {
	if app == nil || cfg == nil || flow == nil {
		return fiber.NewError(fiber.StatusInternalServerError, handler.ErrNilACFFatalLogMsg)
	}

	s.cfg = cfg
	s.flow = flow

	app.Get(Path, authmiddleware.RequireAuthenticated(login.Path), s.Logout)
	app.Post(Path, authmiddleware.RequireAuthenticated(login.Path), s.Logout)

	return nil
}

// Logout destroys the current session, clears the cookie and presents the login form.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.flow.Logout(c.UserContext(), authmiddleware.CurrentSession(c)); err != nil {
		status, notice := handler.Notice(c, err)
		return login.Render(c, s.cfg, status, notice, flash.CategoryError, "")
	}

	session.ClearCookie(c, !s.cfg.DevMode)

	return login.Render(c, s.cfg, fiber.StatusOK, SuccessNotice, flash.CategorySuccess, "")
}
