package config

import (
	"time"

	"github.com/habitrack/habit-admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	BaaS      BaaS
	Cron      Cron
	Generator Generator
	Events    Events
	Schedule  Schedule
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	SecureCookies  bool    // mark session cookies as secure
	Session        Session // session settings
}

// BaaS holds access to the managed backend's auth admin API.
type BaaS struct {
	URL            string        // project url, e.g. https://xyz.supabase.co
	ServiceRoleKey string        // service role key, never exposed to clients
	JWTSecret      string        // HS256 secret used to verify user access tokens
	JWTAudience    string        // expected aud claim, unchecked when empty
	Timeout        time.Duration // per request timeout
}

// Cron holds the scheduled trigger settings.
type Cron struct {
	// Secret compared against the bearer token of the cron endpoint.
	// Empty means the endpoint is open (development only).
	Secret string
}

// Generator selects and configures the challenge generator.
type Generator struct {
	Provider        string // template or gemini
	APIKey          string
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
}

// Events configures change notification.
type Events struct {
	NATSURL       string // empty disables publishing
	SubjectPrefix string
}

// Schedule holds settings for computing challenge date windows.
type Schedule struct {
	Location string // IANA zone used for "tomorrow", default UTC
}
