// Package daemon bootstraps the database, the session storage and the web service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskflow-app/taskflow/internal/auth"
	"github.com/taskflow-app/taskflow/internal/config"
	"github.com/taskflow-app/taskflow/internal/db/controller/sessionstore"
	"github.com/taskflow-app/taskflow/internal/db/controller/user"
	"github.com/taskflow-app/taskflow/internal/db/dsn"
	"github.com/taskflow-app/taskflow/internal/db/models"
	"github.com/taskflow-app/taskflow/internal/web"
	"github.com/taskflow-app/taskflow/internal/web/session"
)

const (
	sessionTable         = "sessions"
	sessionSweepInterval = 10 * time.Minute
)

// ErrConfigNil is returned by New without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    fiber.Storage
	webService *web.Service
	stopSweep  context.CancelFunc
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	d := &Daemon{cfg: cfg, db: db}

	if err = d.initSessionStorage(); err != nil {
		return nil, err
	}

	flow, sessions, err := NewFlow(db, d.storage, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DevMode {
		seed(context.Background(), cfg, user.New(db), flow)
	}

	if d.webService, err = web.New(cfg, flow, sessions); err != nil {
		return nil, fmt.Errorf("failed to create web service: %w", err)
	}

	return d, nil
}

// NewFlow wires the authentication flow on db and the session storage.
func NewFlow(db *gorm.DB, storage fiber.Storage, cfg *config.Config) (*auth.Controller, *session.Manager, error) {
	sessions := session.NewManager(storage, cfg.Webserver.Session)

	flow, err := auth.NewController(user.New(db), sessions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create auth controller: %w", err)
	}

	return flow, sessions, nil
}

// Start runs the web service until SIGINT or SIGTERM and releases all resources afterwards.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

	err := d.webService.Start(addr)

	d.Close()

	return err
}

// Close stops the session sweeper and closes the session storage and the database.
func (d *Daemon) Close() {
	if d.stopSweep != nil {
		d.stopSweep()
	}

	if d.storage != nil {
		if err := d.storage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session storage")
		}
	}

	if err := CloseDB(d.db); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}

// CloseDB closes the connection pool behind db.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	return sqlDB.Close()
}

// OpenDB opens the configured database engine with gorm.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	source := dsn.Create(&cfg.DB)

	switch cfg.DB.Engine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(source)
	case config.EnginePostgres:
		dialector = gormpostgres.Open(source)
	case config.EngineSQLite, "":
		dialector = sqlite.Open(source)
	default:
		return nil, config.ErrUnknownDBEngine
	}

	logLevel := gormlogger.Warn
	if cfg.DevMode {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	log.Info().Str("engine", cfg.DB.Engine).Msg("database connected")

	return db, nil
}

// initSessionStorage picks the gofiber storage driver matching the database engine.
// The gofiber sqlite3 driver needs cgo (mattn/go-sqlite3). The pure Go glebarez driver is used
// here instead, so sqlite sessions live in a gorm table that is swept periodically.
func (d *Daemon) initSessionStorage() error {
	switch d.cfg.DB.Engine {
	case config.EngineMySQL:
		d.storage = sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(&d.cfg.DB),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		d.storage = sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(&d.cfg.DB),
			Table:         sessionTable,
		})
	default:
		store, err := sessionstore.New(d.db)
		if err != nil {
			return fmt.Errorf("failed to create session storage: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		d.stopSweep = cancel
		d.storage = store

		go sweep(ctx, store, sessionSweepInterval)
	}

	return nil
}

// sweep removes expired sessions every interval until ctx is done.
func sweep(ctx context.Context, store *sessionstore.Storage, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.DeleteExpired()
			if err != nil {
				log.Error().Err(err).Msg("failed to delete expired sessions")
				continue
			}

			log.Debug().Int64("removed", removed).Msg("expired sessions deleted")
		}
	}
}
