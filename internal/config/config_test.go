package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func writeConfigDir(t *testing.T, mainToml, dotEnv string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(mainToml), 0o600))

	if dotEnv != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotEnv), 0o600))
	}

	return dir
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	assert.Equal(t, EngineSQLite, cfg.DB.Engine)
	assert.Equal(t, 12*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, 8760*time.Hour, cfg.Webserver.Session.RememberExpiryTime)
	assert.Equal(t, "taskflow", cfg.Log.AppName)
	assert.True(t, cfg.Log.Console.Enabled)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read main config file")
}

func TestReadConfigLegacyEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URI", "taskflow:secret@tcp(db:3306)/taskflow_db")
	t.Setenv("SECRET_KEY", "c2VjcmV0LWtleS1zZWNyZXQta2V5LXNlY3JldC1rZXk=")

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "taskflow:secret@tcp(db:3306)/taskflow_db", cfg.DB.URI)
	assert.Equal(t, "c2VjcmV0LWtleS1zZWNyZXQta2V5LXNlY3JldC1rZXk=", cfg.Webserver.CookieEncryptionKey)
}

func TestReadConfigPrefixedEnvironment(t *testing.T) {
	t.Setenv("TASKFLOW_WEBSERVER_PORT", "9191")

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Webserver.Port)
}

func TestReadConfigDotEnv(t *testing.T) {
	t.Cleanup(func() {
		_ = os.Unsetenv("TASKFLOW_TITLE")
	})

	dir := writeConfigDir(t,
		"[Webserver]\nPort = 8080\nURL = \"http://localhost:8080\"\n",
		"TASKFLOW_TITLE=From Dot Env\n",
	)

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "From Dot Env", cfg.Title)
	// defaults fill everything the file left out
	assert.Equal(t, EngineSQLite, cfg.DB.Engine)
	assert.Equal(t, "taskflow.db", cfg.DB.Path)
	assert.Equal(t, defaultSessionExpiry, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, defaultRememberExpiry, cfg.Webserver.Session.RememberExpiryTime)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{
					Port: 8080,
					URL:  "http://localhost:8080",
				},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{
					Port: 0,
					URL:  "http://localhost:8080",
				},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{
					Port: 8080,
					URL:  "",
				},
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "unknown engine",
			config: Config{
				DB: DB{Engine: "oracle"},
				Webserver: Webserver{
					Port: 8080,
					URL:  "http://localhost:8080",
				},
			},
			wantErr: ErrUnknownDBEngine,
		},
		{
			name: "cookie key not base64",
			config: Config{
				Webserver: Webserver{
					Port:                8080,
					URL:                 "http://localhost:8080",
					CookieEncryptionKey: "not base64!",
				},
			},
			wantErr: ErrInvalidCookieEncryptionKey,
		},
		{
			name: "cookie key wrong length",
			config: Config{
				Webserver: Webserver{
					Port:                8080,
					URL:                 "http://localhost:8080",
					CookieEncryptionKey: "c2hvcnQ=",
				},
			},
			wantErr: ErrInvalidCookieEncryptionKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, EngineSQLite, tt.config.DB.Engine)
				assert.Equal(t, defaultShutDownTime, tt.config.Webserver.ShutDownTime)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	// Set JSON override environment variable
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090}}`
	t.Setenv(EnvConfigJSON, jsonOverride)

	cfg, err := ReadConfig(projectConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}

	// the override merges, untouched fields keep their file values
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigWithBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, "{")

	_, err := ReadConfig(projectConfigPath(t))
	require.Error(t, err)
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	tomlStr, err := DumpConfig(&cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if tomlStr == "" {
		t.Error("DumpConfig() returned empty string")
	}

	// Check if output contains expected values
	if !strings.Contains(tomlStr, "Test") {
		t.Error("DumpConfig() output should contain Title")
	}
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if jsonStr == "" {
		t.Error("DumpConfigJSON() returned empty string")
	}

	// Check if output is valid JSON by checking for expected fields
	if !strings.Contains(jsonStr, "Test") {
		t.Error("DumpConfigJSON() output should contain Title")
	}
}

func TestDumpConfigRedactsSecrets(t *testing.T) {
	cfg := Config{
		Title: "Test",
		DB: DB{
			Engine:   EngineMySQL,
			URI:      "taskflow:db-uri-secret@tcp(db:3306)/taskflow",
			User:     "taskflow",
			Password: "db-password",
		},
		Webserver: Webserver{
			Port:                8080,
			URL:                 "http://localhost:8080",
			CookieEncryptionKey: "c2VjcmV0LWtleS1zZWNyZXQta2V5LXNlY3JldC1rZXk=",
		},
		Seed: Seed{Email: "admin@example.com", Password: "seed-password"},
	}

	for name, dump := range map[string]func(*Config) (string, error){
		"toml": DumpConfig,
		"json": DumpConfigJSON,
	} {
		t.Run(name, func(t *testing.T) {
			out, err := dump(&cfg)
			require.NoError(t, err)

			assert.NotContains(t, out, "db-uri-secret")
			assert.NotContains(t, out, "db-password")
			assert.NotContains(t, out, "c2VjcmV0LWtleS1zZWNyZXQta2V5LXNlY3JldC1rZXk=")
			assert.NotContains(t, out, "seed-password")
			assert.Contains(t, out, Redacted)
			assert.Contains(t, out, "admin@example.com")
		})
	}

	// the caller's config keeps its values
	assert.Equal(t, "db-password", cfg.DB.Password)
	assert.Equal(t, "seed-password", cfg.Seed.Password)
}
