// Package plan provides the subscription plan routes.
package plan

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/db/controller/plan"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

// Path is the base path for plans.
const Path = handler.AdminPath + "/plans"

// Input is the create body.
type Input struct {
	Name           string   `json:"name"             validate:"required,max=100"`
	Price          float64  `json:"price"            validate:"gte=0"`
	Currency       string   `json:"currency"         validate:"omitempty,len=3"`
	Interval       string   `json:"interval"         validate:"required,oneof=month year week lifetime"`
	AIMessageLimit int      `json:"ai_message_limit" validate:"gte=0"`
	Features       []string `json:"features"         validate:"dive,required,max=200"`
	IsActive       *bool    `json:"is_active"`
}

// Service provides the plan routes.
type Service struct {
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.db = deps.DB
	s.validator = handler.NewValidator()

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequirePermission(deps.Auth, auth.PermPlansManage))
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Create)
		router.Put("/:id", s.Update)
		router.Post("/:id/toggle", s.Toggle)
	})

	return nil
}

// List returns plans, cheapest first.
func (s *Service) List(c *fiber.Ctx) error {
	plans, err := plan.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Internal(c, err, "failed to list plans")
	}

	return handler.OK(c, plans)
}

// Create stores a new plan. Plans are active unless is_active says otherwise.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(Input)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	p := &models.SubscriptionPlan{
		Name:           in.Name,
		Price:          in.Price,
		Currency:       in.Currency,
		Interval:       in.Interval,
		AIMessageLimit: in.AIMessageLimit,
		Features:       in.Features,
		IsActive:       in.IsActive == nil || *in.IsActive,
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}

	if err := plan.Create(c.UserContext(), s.db, p); err != nil {
		return handler.Internal(c, err, "failed to create plan")
	}

	log.Info().Str("plan", p.ID).Str("name", p.Name).Str("admin", auth.CurrentAdmin(c).Username).Msg("plan created")

	return handler.Created(c, p)
}

// Update applies a partial update.
func (s *Service) Update(c *fiber.Ctx) error {
	in := new(plan.Patch)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	p, err := plan.Update(c.UserContext(), s.db, c.Params("id"), *in)

	return s.respond(c, p, err)
}

// Toggle flips the active flag.
func (s *Service) Toggle(c *fiber.Ctx) error {
	id := c.Params("id")

	current, err := plan.Get(c.UserContext(), s.db, id)
	if err != nil {
		return s.respond(c, nil, err)
	}

	p, err := plan.SetActive(c.UserContext(), s.db, id, !current.IsActive)
	if err == nil {
		log.Info().Str("plan", id).Bool("active", p.IsActive).Str("admin", auth.CurrentAdmin(c).Username).
			Msg("plan toggled")
	}

	return s.respond(c, p, err)
}

func (s *Service) respond(c *fiber.Ctx, p *models.SubscriptionPlan, err error) error {
	if errors.Is(err, plan.ErrPlanNotFound) {
		return handler.Fail(c, fiber.StatusNotFound, err.Error())
	}

	if err != nil {
		return handler.Internal(c, err, "failed to update plan")
	}

	return handler.OK(c, p)
}
