// Package challenge provides challenge CRUD and drafting routes.
package challenge

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/db/controller/challenge"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/generator"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

const (
	// Path is the base path for challenge management.
	Path = handler.AdminPath + "/challenges"
)

var (
	// ErrDatesRequired is returned when start or end date is missing.
	ErrDatesRequired = errors.New("start_date and end_date are required")
	// ErrEndBeforeStart is returned when the end date precedes the start date.
	ErrEndBeforeStart = errors.New("end_date must not be before start_date")
)

// Input is the create and update body.
type Input struct {
	Title         string               `json:"title"          validate:"required,max=200"`
	Description   string               `json:"description"    validate:"max=2000"`
	TitleAr       string               `json:"title_ar"       validate:"max=200"`
	TitleEn       string               `json:"title_en"       validate:"max=200"`
	DescriptionAr string               `json:"description_ar" validate:"max=2000"`
	DescriptionEn string               `json:"description_en" validate:"max=2000"`
	Type          models.ChallengeType `json:"type"           validate:"required,oneof=daily weekly"`
	BgColor       string               `json:"bg_color"       validate:"required,hexcolor"`
	StartDate     models.Date          `json:"start_date"`
	EndDate       models.Date          `json:"end_date"`
	Mascot        string               `json:"mascot"         validate:"omitempty,max=32"`
}

// Check validates the date range.
func (in *Input) Check() error {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return ErrDatesRequired
	}

	if in.EndDate.Before(in.StartDate) {
		return ErrEndBeforeStart
	}

	return nil
}

func (in *Input) model() *models.Challenge {
	return &models.Challenge{
		Title:         in.Title,
		Description:   in.Description,
		TitleAr:       in.TitleAr,
		TitleEn:       in.TitleEn,
		DescriptionAr: in.DescriptionAr,
		DescriptionEn: in.DescriptionEn,
		Type:          in.Type,
		BgColor:       in.BgColor,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Mascot:        in.Mascot,
	}
}

// GenerateInput is the draft body.
type GenerateInput struct {
	Topic string `json:"topic" validate:"max=200"`
}

// Draft is a generated, unsaved challenge with suggested dates.
type Draft struct {
	generator.Template
	StartDate models.Date `json:"start_date"`
	EndDate   models.Date `json:"end_date"`
}

// Service provides the challenge routes.
type Service struct {
	repo      *challenge.Repository
	gen       generator.Generator
	location  *time.Location
	validator *validator.Validate
	now       func() time.Time
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Generator == nil {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.repo = challenge.NewRepository(deps.DB, deps.Notifier)
	s.gen = deps.Generator
	s.location = deps.Config.Location()
	s.validator = handler.NewValidator()
	s.now = time.Now

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequirePermission(deps.Auth, auth.PermChallengesManage))
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Create)
		router.Post("/generate", s.Generate)
		router.Put("/:id", s.Update)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns all challenges, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	list, err := s.repo.List(c.UserContext())
	if err != nil {
		return handler.Internal(c, err, "failed to list challenges")
	}

	return handler.OK(c, list)
}

func (s *Service) bind(c *fiber.Ctx) (*Input, error) {
	in := new(Input)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return nil, err
	}

	return in, in.Check()
}

// Create stores a new challenge.
func (s *Service) Create(c *fiber.Ctx) error {
	in, err := s.bind(c)
	if err != nil {
		return handler.BindFail(c, err)
	}

	m := in.model()
	if err = s.repo.Insert(c.UserContext(), m); err != nil {
		return handler.Internal(c, err, "failed to create challenge")
	}

	log.Info().Str("challenge", m.ID).Str("title", m.Title).Str("admin", auth.CurrentAdmin(c).Username).
		Msg("challenge created")

	return handler.Created(c, m)
}

// Update replaces the editable fields of a challenge.
func (s *Service) Update(c *fiber.Ctx) error {
	in, err := s.bind(c)
	if err != nil {
		return handler.BindFail(c, err)
	}

	updated, err := s.repo.Update(c.UserContext(), c.Params("id"), in.model())
	if errors.Is(err, challenge.ErrChallengeNotFound) {
		return handler.Fail(c, fiber.StatusNotFound, err.Error())
	}

	if err != nil {
		return handler.Internal(c, err, "failed to update challenge")
	}

	return handler.OK(c, updated)
}

// Delete removes a challenge.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := s.repo.Delete(c.UserContext(), id)
	if errors.Is(err, challenge.ErrChallengeNotFound) {
		return handler.Fail(c, fiber.StatusNotFound, err.Error())
	}

	if err != nil {
		return handler.Internal(c, err, "failed to delete challenge")
	}

	log.Info().Str("challenge", id).Str("admin", auth.CurrentAdmin(c).Username).Msg("challenge deleted")

	return handler.OK(c, fiber.Map{"id": id})
}

// Generate drafts a challenge without storing it. Localized fields fall
// back to the base text.
func (s *Service) Generate(c *fiber.Ctx) error {
	in := new(GenerateInput)
	if len(c.Body()) > 0 {
		if err := handler.Bind(c, s.validator, in); err != nil {
			return handler.BindFail(c, err)
		}
	}

	tpl, err := s.gen.Generate(c.UserContext(), in.Topic)
	if err != nil {
		log.Error().Err(err).Str("topic", in.Topic).Msg("challenge generation failed")

		return handler.Fail(c, fiber.StatusBadGateway, "failed to generate challenge: "+err.Error())
	}

	start, end := autochallenge.ChallengeDates(s.now(), s.location, tpl.DurationDays)

	return handler.OK(c, Draft{Template: tpl.WithFallbacks(), StartDate: start, EndDate: end})
}
