package config

const (
	// EnginePostgres is the BaaS database (and default).
	EnginePostgres = "postgres"
	// EngineMySQL is for self-hosted installations.
	EngineMySQL = "mysql"
	// EngineSQLite is for development and tests.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras      string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	GormEngine  string
	Path        string // sqlite file, ":memory:" allowed
	AutoMigrate bool   // create missing tables on start
}
