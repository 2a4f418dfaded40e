package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/baas"
	"github.com/habitrack/habit-admin/internal/config"
	"github.com/habitrack/habit-admin/internal/events"
	"github.com/habitrack/habit-admin/internal/generator"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// UserDirectory is the part of the BaaS auth admin API the handlers use.
type UserDirectory interface {
	ListUsers(ctx context.Context, page, perPage int) (*baas.UserPage, error)
	GetUser(ctx context.Context, id string) (*baas.User, error)
	BanUser(ctx context.Context, id, duration string) error
	UnbanUser(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// AutoChallenger runs the challenge scheduling policy.
type AutoChallenger interface {
	Run(ctx context.Context, req autochallenge.Request) (autochallenge.Result, error)
}

// Deps are the shared dependencies handed to every handler.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Auth      *auth.Service
	Notifier  *events.Notifier
	Users     UserDirectory
	Generator generator.Generator
	Policy    AutoChallenger
}

// Valid reports whether the dependencies every handler needs are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Config != nil && d.DB != nil && d.Auth != nil
}
