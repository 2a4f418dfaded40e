// Package maintenance serves the maintenance switch, the auto challenge
// settings and the public status endpoint.
package maintenance

import (
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/db/controller/appconfig"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

const (
	// Path is the base path for maintenance settings.
	Path = handler.AdminPath + "/maintenance"
	// StatusPath is the unauthenticated status endpoint used by the app.
	StatusPath = handler.APIPath + "/status"
)

// ErrIntervalNotAllowed is returned for an interval outside the offered choices.
var ErrIntervalNotAllowed = errors.New("interval_hours must be one of 6, 12, 24, 48, 168")

// Overview is the GET response. NextRun is informational, the external
// scheduler decides when to call.
type Overview struct {
	Maintenance   bool                `json:"maintenance"`
	AutoChallenge autochallenge.State `json:"auto_challenge"`
	NextRun       *time.Time          `json:"next_run"`
}

// ToggleInput is the maintenance switch body.
type ToggleInput struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// AutoChallengeInput is the auto challenge settings body.
type AutoChallengeInput struct {
	Enabled       *bool                       `json:"enabled"        validate:"required"`
	IntervalHours int                         `json:"interval_hours" validate:"required"`
	Type          autochallenge.PreferredType `json:"type"           validate:"required,oneof=daily weekly both"`
}

// RunInput is the optional manual run body.
type RunInput struct {
	Topic string `json:"topic" validate:"max=200"`
}

// Service provides the maintenance routes.
type Service struct {
	store     *appconfig.Store
	policy    handler.AutoChallenger
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	if deps.Policy == nil {
		return errors.New("auto challenge policy is nil")
	}

	s.store = appconfig.NewStore(deps.DB, deps.Notifier)
	s.policy = deps.Policy
	s.validator = handler.NewValidator()

	app.Get(StatusPath, s.Status)

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequirePermission(deps.Auth, auth.PermMaintenanceManage))
		router.Get(handler.RouterRootPath, s.Get)
		router.Put(handler.RouterRootPath, s.Toggle)
		router.Put("/auto-challenge", s.SaveAutoChallenge)
		router.Post("/auto-challenge/run", s.Run)
	})

	return nil
}

// Status reports whether the app is in maintenance mode. A store failure
// reports false so clients keep working.
func (s *Service) Status(c *fiber.Ctx) error {
	entries, err := s.store.GetAll(c.UserContext())
	if err != nil {
		log.Warn().Err(err).Msg("failed to read maintenance flag")
	}

	return handler.OK(c, fiber.Map{"maintenance": entries[models.KeyMaintenanceMode] == "true"})
}

// Get returns the maintenance flag and the auto challenge state.
func (s *Service) Get(c *fiber.Ctx) error {
	entries, err := s.store.GetAll(c.UserContext())
	if err != nil {
		return handler.Internal(c, err, "failed to read settings")
	}

	state := autochallenge.ParseState(entries)

	return handler.OK(c, Overview{
		Maintenance:   entries[models.KeyMaintenanceMode] == "true",
		AutoChallenge: state,
		NextRun:       state.NextRun(),
	})
}

// Toggle switches maintenance mode.
func (s *Service) Toggle(c *fiber.Ctx) error {
	in := new(ToggleInput)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	if err := s.store.Set(c.UserContext(), models.KeyMaintenanceMode, strconv.FormatBool(*in.Enabled)); err != nil {
		return handler.Internal(c, err, "failed to save maintenance mode")
	}

	log.Warn().Bool("maintenance", *in.Enabled).Str("admin", auth.CurrentAdmin(c).Username).
		Msg("maintenance mode changed")

	return handler.OK(c, fiber.Map{"maintenance": *in.Enabled})
}

// SaveAutoChallenge stores the auto challenge settings.
func (s *Service) SaveAutoChallenge(c *fiber.Ctx) error {
	in := new(AutoChallengeInput)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	if !slices.Contains(autochallenge.AllowedIntervals, in.IntervalHours) {
		return handler.Fail(c, fiber.StatusBadRequest, ErrIntervalNotAllowed.Error())
	}

	ctx := c.UserContext()
	for _, kv := range [][2]string{
		{models.KeyAutoChallengeEnabled, strconv.FormatBool(*in.Enabled)},
		{models.KeyAutoChallengeIntervalHours, strconv.Itoa(in.IntervalHours)},
		{models.KeyAutoChallengeType, string(in.Type)},
	} {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			return handler.Internal(c, err, "failed to save auto challenge settings")
		}
	}

	log.Info().Bool("enabled", *in.Enabled).Int("interval_hours", in.IntervalHours).Str("type", string(in.Type)).
		Str("admin", auth.CurrentAdmin(c).Username).Msg("auto challenge settings saved")

	return s.Get(c)
}

// Run creates a challenge now, regardless of the enabled switch.
func (s *Service) Run(c *fiber.Ctx) error {
	in := new(RunInput)
	if len(c.Body()) > 0 {
		if err := handler.Bind(c, s.validator, in); err != nil {
			return handler.BindFail(c, err)
		}
	}

	res, err := s.policy.Run(c.UserContext(), autochallenge.Request{
		Trigger: autochallenge.TriggerManual,
		Topic:   in.Topic,
	})
	if err != nil {
		return handler.Internal(c, err, "failed to create challenge")
	}

	return handler.Created(c, fiber.Map{
		"title":             res.Title,
		"challenge":         res.Challenge,
		"last_run_recorded": res.LastRunRecorded,
	})
}
