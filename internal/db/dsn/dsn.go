// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/taskflow-app/taskflow/internal/config"
)

// DefaultMySQLExtras are used when no extras are configured, gorm needs parseTime for time.Time columns.
const DefaultMySQLExtras = "charset=utf8mb4&parseTime=True&loc=Local"

// Create builds the Data Source Name for the configured engine.
// A configured URI is returned unchanged.
func Create(dbCfg *config.DB) string {
	if dbCfg.URI != "" {
		return dbCfg.URI
	}

	switch dbCfg.Engine {
	case config.EnginePostgres:
		return postgres(dbCfg)
	case config.EngineSQLite, "":
		return dbCfg.Path
	default:
		return mysql(dbCfg)
	}
}

func mysql(dbCfg *config.DB) string {
	extras := dbCfg.Extras
	if extras == "" {
		extras = DefaultMySQLExtras
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
		extras,
	)
}

func postgres(dbCfg *config.DB) string {
	parts := []string{
		"host=" + dbCfg.Host,
		fmt.Sprintf("port=%d", dbCfg.Port),
		"user=" + dbCfg.User,
		"password=" + dbCfg.Password,
		"dbname=" + dbCfg.Name,
	}

	if dbCfg.Extras != "" {
		parts = append(parts, dbCfg.Extras)
	}

	return strings.Join(parts, " ")
}
