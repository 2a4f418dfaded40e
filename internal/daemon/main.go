// Package daemon assembles the service from its configuration.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/baas"
	"github.com/habitrack/habit-admin/internal/config"
	"github.com/habitrack/habit-admin/internal/db"
	"github.com/habitrack/habit-admin/internal/db/controller/appconfig"
	"github.com/habitrack/habit-admin/internal/db/controller/challenge"
	"github.com/habitrack/habit-admin/internal/db/dsn"
	"github.com/habitrack/habit-admin/internal/events"
	"github.com/habitrack/habit-admin/internal/generator"
	"github.com/habitrack/habit-admin/internal/web"
	"github.com/habitrack/habit-admin/internal/web/handler"
	"github.com/habitrack/habit-admin/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	notifier   *events.Notifier
	webService *web.Service
}

// Start serves HTTP until SIGINT or SIGTERM and then releases resources.
func (d *Daemon) Start() error {
	go func() {
		if err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port)); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return d.Close()
}

// Close flushes the publisher and closes the database.
func (d *Daemon) Close() error {
	if err := d.notifier.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close event publisher")
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database handle")
	}

	return sqlDB.Close()
}

// Components are the long lived parts shared by the web service and the CLI.
type Components struct {
	DB        *gorm.DB
	Notifier  *events.Notifier
	Users     *baas.Client
	Generator generator.Generator
	Policy    *autochallenge.Policy
}

// Build opens the database and creates the shared components.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	gen, err := generator.New(ctx, cfg.Generator)
	if err != nil {
		closeDB(conn)

		return nil, err
	}

	notifier := events.NewNotifier(newPublisher(cfg.Events), cfg.Events.SubjectPrefix)

	return &Components{
		DB:        conn,
		Notifier:  notifier,
		Users:     baas.NewClient(cfg.BaaS.URL, cfg.BaaS.ServiceRoleKey, cfg.BaaS.Timeout),
		Generator: gen,
		Policy: &autochallenge.Policy{
			Config:     appconfig.NewStore(conn, notifier),
			Challenges: challenge.NewRepository(conn, notifier),
			Generator:  gen,
			Location:   cfg.Location(),
		},
	}, nil
}

func closeDB(conn *gorm.DB) {
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}

	if err = sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}

func newPublisher(cfg config.Events) events.Publisher {
	if cfg.NATSURL == "" {
		log.Info().Msg("change notification disabled, no nats url configured")

		return &events.NoopPublisher{}
	}

	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		log.Error().Err(err).Str("url", cfg.NATSURL).Msg("nats unreachable, change notification disabled")

		return &events.NoopPublisher{}
	}

	return pub
}

// SessionStorage returns the session backend for the configured engine,
// nil (process memory) for sqlite.
func SessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	case config.EngineSQLite:
		log.Warn().Msg("sqlite engine: sessions are kept in memory")

		return nil
	default:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	}
}

// New creates a Daemon with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	c, err := Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session.Init(SessionStorage(cfg))

	if !c.Users.Configured() {
		log.Warn().Msg("baas url or service role key missing, user management is unavailable")
	}

	verifier := auth.NewTokenVerifier(cfg.BaaS.JWTSecret, cfg.BaaS.JWTAudience)
	if !verifier.Enabled() {
		log.Warn().Msg("baas jwt secret missing, only local admins can sign in")
	}

	webService, err := web.New(&handler.Deps{
		Config:    cfg,
		DB:        c.DB,
		Auth:      auth.NewService(c.DB, verifier, auth.NewLocalProvider(c.DB, cfg.Title)),
		Notifier:  c.Notifier,
		Users:     c.Users,
		Generator: c.Generator,
		Policy:    c.Policy,
	})
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		db:         c.DB,
		notifier:   c.Notifier,
		webService: webService,
	}, nil
}
