// Package dashboard provides the headline statistics of the back office.
package dashboard

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/db/controller/activity"
	"github.com/habitrack/habit-admin/internal/db/controller/challenge"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

const (
	// Path is the path to the dashboard statistics.
	Path = handler.AdminPath + "/dashboard"
)

// Stats are the dashboard numbers. A failing source reports zero.
type Stats struct {
	TotalUsers       int   `json:"total_users"`
	ActiveChallenges int64 `json:"active_challenges"`
	CompletedHabits  int64 `json:"completed_habits"`
}

// Service is the dashboard handler service.
type Service struct {
	db         *gorm.DB
	users      handler.UserDirectory
	challenges *challenge.Repository
	location   *time.Location
	now        func() time.Time
}

// Handler is the dashboard handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the dashboard route.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Users == nil {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.db = deps.DB
	s.users = deps.Users
	s.challenges = challenge.NewRepository(deps.DB, deps.Notifier)
	s.location = deps.Config.Location()
	s.now = time.Now

	app.Get(Path,
		auth.RequirePermission(deps.Auth, auth.PermDashboardView),
		s.Get,
	)

	return nil
}

// Get returns the dashboard statistics.
func (s *Service) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var stats Stats

	total, err := s.users.CountUsers(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: failed to count users")
	} else {
		stats.TotalUsers = total
	}

	today := models.DateOf(s.now().In(s.location))

	if stats.ActiveChallenges, err = s.challenges.CountActive(ctx, today); err != nil {
		log.Warn().Err(err).Msg("dashboard: failed to count active challenges")
	}

	if stats.CompletedHabits, err = activity.CountCompletedLogs(ctx, s.db); err != nil {
		log.Warn().Err(err).Msg("dashboard: failed to count completed habits")
	}

	return handler.OK(c, stats)
}
