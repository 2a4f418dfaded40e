// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"

	"github.com/habitrack/habit-admin/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.EngineMySQL:
		return MySQL(&dbCfg.DB)
	case config.EngineSQLite:
		return SQLite(&dbCfg.DB)
	default:
		return Postgres(&dbCfg.DB)
	}
}

// MySQL builds a go-sql-driver style DSN.
func MySQL(db *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

// Postgres builds a postgres:// URL, also accepted by the session storage.
func Postgres(db *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

// SQLite returns the database file, in memory when empty.
func SQLite(db *config.DB) string {
	if db.Path == "" {
		return "file::memory:?cache=shared"
	}

	return db.Path
}
