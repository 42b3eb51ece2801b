package config

import (
	"time"

	"github.com/taskflow-app/taskflow/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime         time.Duration // lifetime of a session that was not remembered
	RememberExpiryTime time.Duration // lifetime of a "remember me" session
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Seed      Seed
}

// Seed describes an optional account created on an empty user table in dev mode.
type Seed struct {
	Email    string
	Name     string
	Password string
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // base64 key for cookie encryption, empty disables it
	Session             Session // session settings
}
