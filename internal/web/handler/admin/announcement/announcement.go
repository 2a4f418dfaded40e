// Package announcement provides the broadcast announcement routes.
package announcement

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/db/controller/announcement"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

// Path is the base path for announcements.
const Path = handler.AdminPath + "/announcements"

// Input is the send body.
type Input struct {
	Title          string          `json:"title"           validate:"required,max=200"`
	Body           string          `json:"body"            validate:"required,max=4000"`
	TargetAudience models.Audience `json:"target_audience" validate:"omitempty,oneof=all active inactive"`
}

// Service provides the announcement routes.
type Service struct {
	repo      *announcement.Repository
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.repo = announcement.NewRepository(deps.DB, deps.Notifier)
	s.validator = handler.NewValidator()

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequirePermission(deps.Auth, auth.PermAnnouncementsManage))
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Send)
	})

	return nil
}

// List returns announcements, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	list, err := s.repo.List(c.UserContext())
	if err != nil {
		return handler.Internal(c, err, "failed to list announcements")
	}

	return handler.OK(c, list)
}

// Send stores and broadcasts an announcement.
func (s *Service) Send(c *fiber.Ctx) error {
	in := new(Input)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	a := &models.Announcement{
		Title:          in.Title,
		Body:           in.Body,
		TargetAudience: in.TargetAudience,
	}

	if err := s.repo.Send(c.UserContext(), a); err != nil {
		return handler.Internal(c, err, "failed to send announcement")
	}

	log.Info().Str("announcement", a.ID).Str("audience", string(a.TargetAudience)).
		Str("admin", auth.CurrentAdmin(c).Username).Msg("announcement sent")

	return handler.Created(c, a)
}
