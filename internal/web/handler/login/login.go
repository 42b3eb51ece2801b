// Package login provides the login page handlers.
package login

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/web/flash"
	"github.com/taskflow-app/taskflow/internal/web/handler"
	"github.com/taskflow-app/taskflow/internal/web/handler/dashboard"
	authmiddleware "github.com/taskflow-app/taskflow/internal/web/middleware/auth"
	"github.com/taskflow-app/taskflow/internal/web/navigation"
	"github.com/taskflow-app/taskflow/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.RootPath + "login"

	// TemplateName is the name of the login template.
	TemplateName = "auth/login"

	// SuccessNotice is flashed after a successful login.
	SuccessNotice = "Logged in successfully!"
)

// Form is the submitted login form.
type Form struct {
	Email      string `form:"email"`
	Password   string `form:"password"`
	RememberMe string `form:"remember_me"`
}

// Service is the login handler service.
type Service struct {
	cfg  *config.Config
	flow handler.AuthFlow
}

var _ handler.Service = (*Service)(nil)

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, flow handler.AuthFlow) error {
	if app == nil || cfg == nil || flow == nil {
		return fiber.NewError(fiber.StatusInternalServerError, handler.ErrNilACFFatalLogMsg)
	}

	s.cfg = cfg
	s.flow = flow

	app.Get(Path, authmiddleware.RedirectAuthenticated(dashboard.Path), s.Get)
	app.Post(Path, authmiddleware.RedirectAuthenticated(dashboard.Path), s.Post)

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return Render(c, s.cfg, fiber.StatusOK, "", flash.CategoryInfo, "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		log.Debug().Err(err).Msg("failed to parse login form")
		return Render(c, s.cfg, fiber.StatusBadRequest, handler.InvalidFormNotice, flash.CategoryError, "")
	}

	res, err := s.flow.Login(c.UserContext(), auth.LoginInput{
		Email:      form.Email,
		Password:   form.Password,
		RememberMe: form.RememberMe != "",
	})
	if err != nil {
		status, notice := handler.Notice(c, err)
		return Render(c, s.cfg, status, notice, flash.CategoryError, form.Email)
	}

	session.WriteCookie(c, res.Session, !s.cfg.DevMode)
	flash.Set(c, flash.CategorySuccess, SuccessNotice)

	return c.Redirect(dashboard.Path)
}

// Render renders the login form. Other handlers use it to present the login prompt with a notice.
func Render(c *fiber.Ctx, cfg *config.Config, status int, notice, category, email string) error {
	nav := navigation.NewContext("Log in", navigation.PageLogin, nil)

	return c.Status(status).Render(TemplateName, fiber.Map{
		"Title":          cfg.Title,
		"Navigation":     nav,
		"Notice":         notice,
		"NoticeCategory": category,
		"Email":          email,
	}, handler.BaseLayout)
}
