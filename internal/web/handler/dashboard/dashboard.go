// Package dashboard provides the landing page shown after login.
package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/web/flash"
	"github.com/taskflow-app/taskflow/internal/web/handler"
	authmiddleware "github.com/taskflow-app/taskflow/internal/web/middleware/auth"
	"github.com/taskflow-app/taskflow/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	loginPath = handler.RootPath + "login"
)

// Service is the dashboard handler service.
type Service struct {
	cfg *config.Config
}

var _ handler.Service = (*Service)(nil)

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ handler.AuthFlow) error {
	if app == nil || cfg == nil {
		return fiber.NewError(fiber.StatusInternalServerError, handler.ErrNilACFFatalLogMsg)
	}

	s.cfg = cfg

	app.Get(Path, authmiddleware.RequireAuthenticated(loginPath), s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	sess := authmiddleware.CurrentSession(c)
	nav := navigation.NewContext("Dashboard", navigation.PageDashboard, sess)

	data := fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"Name":       sess.Name,
		"Email":      sess.Email,
	}

	if msg := flash.Pop(c); msg != nil {
		data["Notice"] = msg.Text
		data["NoticeCategory"] = msg.Category
	}

	return c.Render(TemplateName, data, handler.BaseLayout)
}
