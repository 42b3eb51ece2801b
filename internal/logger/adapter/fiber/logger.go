// Package fiber provides a zerolog based access log middleware for fiber.
package fiber

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskflow-app/taskflow/internal/logger"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Enrich adds request specific fields, e.g. the authenticated user.
	//
	// Optional. Default: nil
	Enrich func(c *fiber.Ctx, e *zerolog.Event)

	// Config of the logger.
	Config logger.Log

	// CacheControlError max-age caching on chain errors.
	CacheControlError string

	// CheckAliveURI for disabling logging of check alive http calls.
	CheckAliveURI string
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{
	Next:              nil,
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	return cfg
}

// accessWriters collects the enabled access log outputs.
func accessWriters(cfg *logger.Log) []io.Writer {
	var writers []io.Writer

	if cfg.File.Enabled {
		if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil {
			log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")
		} else {
			writers = append(writers, logger.NewRollingFile(cfg.File.Path, cfg.File.Access()))
		}
	}

	// the access log needs both the console and its own switch
	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return writers
}

// New creates a new fiber access logging middleware using zerolog.
func New(config ...Config) fiber.Handler {
	var (
		cfg        = configDefault(config...)
		once       sync.Once
		errHandler fiber.ErrorHandler
	)

	accessLogger := zerolog.New(zerolog.MultiLevelWriter(accessWriters(&cfg.Config)...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		once.Do(func() {
			errHandler = ctx.App().ErrorHandler
		})

		start := time.Now()

		// the error is answered here so the logged status is the one sent
		chainErr := ctx.Next()
		if chainErr != nil {
			if errH := errHandler(ctx, chainErr); errH != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // ok here
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		logAccess(ctx, &cfg, &accessLogger, start, chainErr)

		return nil
	}
}

func logAccess(ctx *fiber.Ctx, cfg *Config, accessLogger *zerolog.Logger, start time.Time, chainErr error) {
	elapsed := time.Since(start).Seconds()
	ctx.Response().Header.Set("X-Performance", fmt.Sprintf("%f", elapsed))

	if cfg.Config.DisableCheckAlive && cfg.CheckAliveURI != "" && ctx.Path() == cfg.CheckAliveURI {
		return
	}

	// the request URI carries the query string, the path is already normalized by fasthttp
	uri := string(ctx.Request().RequestURI())

	event := accessLogger.Log().
		Str("IP", ctx.IP()).
		Int("status", ctx.Response().StatusCode()).
		Float64("X-Performance", elapsed).
		Str("URI", uri).
		Str("method", ctx.Method()).
		Bytes("host", ctx.Request().Host()).
		Str(fiber.HeaderXForwardedFor, ctx.Get(fiber.HeaderXForwardedFor)).
		Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent)).
		Str(fiber.HeaderReferer, ctx.Get(fiber.HeaderReferer))

	if cfg.Enrich != nil {
		cfg.Enrich(ctx, event)
	}

	if chainErr != nil {
		event.Err(chainErr)
	}

	event.Send()
}
