package config

// Supported database engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql, postgres or sqlite
	URI      string // full connection string, takes precedence over the fields below
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // database file for sqlite
}
