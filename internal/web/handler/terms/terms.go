// Package terms serves the static terms page.
package terms

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/web/handler"
	authmiddleware "github.com/taskflow-app/taskflow/internal/web/middleware/auth"
	"github.com/taskflow-app/taskflow/internal/web/navigation"
)

const (
	// Path is the path to the terms page.
	Path = handler.RootPath + "terms"

	// TemplateName is the name of the terms template.
	TemplateName = "auth/terms"
)

// Service is the terms handler service.
type Service struct {
	cfg *config.Config
}

var _ handler.Service = (*Service)(nil)

// Init initializes the terms handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ handler.AuthFlow) error {
	if app == nil || cfg == nil {
		return fiber.NewError(fiber.StatusInternalServerError, handler.ErrNilACFFatalLogMsg)
	}

	s.cfg = cfg

	app.Get(Path, s.Get)

	return nil
}

// Get renders the terms page for anonymous and logged in visitors alike.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Terms", navigation.PageTerms, authmiddleware.CurrentSession(c))

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
	}, handler.BaseLayout)
}
