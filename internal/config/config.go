// Package config handles input from etc/main.toml, an optional etc/.env file and the environment.
package config

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding config keys.
	EnvPrefix = "TASKFLOW"

	// EnvConfigJSON holds a JSON document merged over the file configuration.
	EnvConfigJSON = "TASKFLOW_CONFIG_JSON"

	defaultSessionExpiry  = 12 * time.Hour
	defaultRememberExpiry = 365 * 24 * time.Hour
	defaultShutDownTime   = 5
)

// ReadConfig from config directory.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	// a missing .env is fine, the environment may already be populated
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	v := newViper()
	v.SetConfigFile(filepath.Join(path, "main.toml"))

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

// newViper prepares defaults and environment bindings.
// DATABASE_URI and SECRET_KEY are kept for deployments of the previous release.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("title", "TaskFlow")
	v.SetDefault("db.engine", EngineSQLite)
	v.SetDefault("db.path", "taskflow.db")
	v.SetDefault("webserver.port", 8080) //nolint:mnd
	v.SetDefault("webserver.shutdowntime", defaultShutDownTime)
	v.SetDefault("webserver.session.expirytime", defaultSessionExpiry)
	v.SetDefault("webserver.session.rememberexpirytime", defaultRememberExpiry)

	_ = v.BindEnv("db.uri", EnvPrefix+"_DB_URI", "DATABASE_URI")
	_ = v.BindEnv("webserver.cookieencryptionkey", EnvPrefix+"_WEBSERVER_COOKIEENCRYPTIONKEY", "SECRET_KEY")

	return v
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// Redacted replaces non-empty secrets in dumped configs.
const Redacted = "<redacted>"

func redact(secret *string) {
	if *secret != "" {
		*secret = Redacted
	}
}

// redacted returns a copy of c with passwords, keys and the database URI masked.
func redacted(c *Config) Config {
	out := *c

	redact(&out.DB.Password)
	redact(&out.DB.URI)
	redact(&out.Webserver.CookieEncryptionKey)
	redact(&out.Seed.Password)

	return out
}

// DumpConfig config as TOML String, secrets redacted.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(redacted(c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String, secrets redacted.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(redacted(c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill defaults the file may have zeroed.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.Engine {
	case "":
		c.DB.Engine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownDBEngine, invalidErrMessage)
	}

	if key := c.Webserver.CookieEncryptionKey; key != "" {
		raw, err := base64.StdEncoding.DecodeString(key)
		if err != nil || (len(raw) != 16 && len(raw) != 24 && len(raw) != 32) {
			return errors.Wrap(ErrInvalidCookieEncryptionKey, invalidErrMessage)
		}
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime <= 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.Session.RememberExpiryTime <= 0 {
		c.Webserver.Session.RememberExpiryTime = defaultRememberExpiry
	}

	return nil
}
