// Package signup provides the account registration handlers.
package signup

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/web/flash"
	"github.com/taskflow-app/taskflow/internal/web/handler"
	"github.com/taskflow-app/taskflow/internal/web/handler/dashboard"
	"github.com/taskflow-app/taskflow/internal/web/handler/login"
	authmiddleware "github.com/taskflow-app/taskflow/internal/web/middleware/auth"
	"github.com/taskflow-app/taskflow/internal/web/navigation"
	"github.com/taskflow-app/taskflow/internal/web/session"
)

const (
	// Path is the path to the signup page.
	Path = handler.RootPath + "signup"

	// TemplateName is the name of the signup template.
	TemplateName = "auth/signup"

	// SuccessNotice is shown once the account exists.
	SuccessNotice = "Account created successfully!"
)

// Form is the submitted signup form.
type Form struct {
	Email           string `form:"email"`
	Name            string `form:"name"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	AutoLogin       string `form:"auto_login_on_signup"`
}

// Service is the signup handler service.
type Service struct {
	cfg  *config.Config
	flow handler.AuthFlow
}

var _ handler.Service = (*Service)(nil)

// Init initializes the signup handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, flow handler.AuthFlow) error {
	if app == nil || cfg == nil || flow == nil {
		return fiber.NewError(fiber.StatusInternalServerError, handler.ErrNilACFFatalLogMsg)
	}

	s.cfg = cfg
	s.flow = flow

	app.Route(Path, func(router fiber.Router) {
		router.Use(authmiddleware.RedirectAuthenticated(dashboard.Path))
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the signup page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "", &Form{})
}

// Post handles the signup form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		log.Debug().Err(err).Msg("failed to parse signup form")
		return s.render(c, fiber.StatusBadRequest, handler.InvalidFormNotice, &Form{})
	}

	res, err := s.flow.Signup(c.UserContext(), auth.SignupInput{
		Email:           form.Email,
		Name:            form.Name,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		AutoLogin:       form.AutoLogin != "",
	})
	if err != nil {
		status, notice := handler.Notice(c, err)
		return s.render(c, status, notice, form)
	}

	if res.Outcome == auth.SuccessWithSession {
		session.WriteCookie(c, res.Session, !s.cfg.DevMode)
		flash.Set(c, flash.CategorySuccess, SuccessNotice)

		return c.Redirect(dashboard.Path)
	}

	return login.Render(c, s.cfg, fiber.StatusOK, SuccessNotice, flash.CategorySuccess, res.User.Email)
}

// render shows the signup form. Only email and name are echoed back, never the passwords.
func (s *Service) render(c *fiber.Ctx, status int, notice string, form *Form) error {
	nav := navigation.NewContext("Sign up", navigation.PageSignup, nil)

	return c.Status(status).Render(TemplateName, fiber.Map{
		"Title":          s.cfg.Title,
		"Navigation":     nav,
		"Notice":         notice,
		"NoticeCategory": flash.CategoryError,
		"Email":          form.Email,
		"Name":           form.Name,
	}, handler.BaseLayout)
}
