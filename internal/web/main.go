// Package web wires the Fiber application: templates, middleware and page handlers.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/config"
	accesslog "github.com/taskflow-app/taskflow/internal/logger/adapter/fiber"
	"github.com/taskflow-app/taskflow/internal/web/handler"
	"github.com/taskflow-app/taskflow/internal/web/handler/dashboard"
	"github.com/taskflow-app/taskflow/internal/web/handler/login"
	"github.com/taskflow-app/taskflow/internal/web/handler/logout"
	"github.com/taskflow-app/taskflow/internal/web/handler/signup"
	"github.com/taskflow-app/taskflow/internal/web/handler/terms"
	authmiddleware "github.com/taskflow-app/taskflow/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes Prometheus metrics.
	MetricsPath = "/metrics"
	// StaticPath serves the embedded static files.
	StaticPath = "/static"
)

var (
	// ErrConfigNil is returned by New without a configuration.
	ErrConfigNil = errors.New("config cannot be nil")
	// ErrFlowNil is returned by New without an authentication flow or session resolver.
	ErrFlowNil = errors.New("auth flow and session resolver cannot be nil")
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fiber listen error: %w", err)
	}

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the web service gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown drains and stops the http server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown && s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// newTemplateEngine loads the embedded templates, or the local ones in dev mode.
func newTemplateEngine(cfg *config.Config) (*html.Engine, error) {
	var engine *html.Engine

	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.Reload(true)

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	} else {
		templates, err := assetDir("templates")
		if err != nil {
			return nil, err
		}

		engine = html.NewFileSystem(templates, ".gohtml")
	}

	engine.AddFunc("year", func() int {
		return time.Now().Year()
	})

	return engine, nil
}

// New creates the web service. Sessions resolves the session cookie on every request.
func New(cfg *config.Config, flow handler.AuthFlow, sessions authmiddleware.Resolver) (*Service, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if flow == nil || sessions == nil {
		return nil, ErrFlowNil
	}

	views, err := newTemplateEngine(cfg)
	if err != nil {
		return nil, err
	}

	static, err := assetDir("static")
	if err != nil {
		return nil, err
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          views,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		Enrich: func(c *fiber.Ctx, e *zerolog.Event) {
			if sess := authmiddleware.CurrentSession(c); sess != nil {
				e.Uint64("user_id", sess.UserID)
			}
		},
	}))

	// inside the access log, so recovered panics are logged with their 500
	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key: cfg.Webserver.CookieEncryptionKey,
		}))
	}

	// serve embedded static files
	app.Use(StaticPath,
		filesystem.New(
			filesystem.Config{
				Root:   static,
				Browse: cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmiddleware.Middleware(sessions, !cfg.DevMode))

	handlers := []handler.Service{
		new(login.Service),
		new(signup.Service),
		new(logout.Service),
		new(terms.Service),
		new(dashboard.Service),
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, flow); err != nil {
			return nil, err
		}
	}

	// redirect root to dashboard
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}
