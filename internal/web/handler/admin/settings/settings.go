// Package settings exposes the app_config key/value store.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/db/controller/appconfig"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

// Path is the base path for settings.
const Path = handler.AdminPath + "/settings"

// EntryInput is the create body.
type EntryInput struct {
	Key   string `json:"key"   validate:"required,max=128"`
	Value string `json:"value" validate:"max=4000"`
}

// ValueInput is the update body.
type ValueInput struct {
	Value string `json:"value" validate:"max=4000"`
}

// Service provides the settings routes.
type Service struct {
	store     *appconfig.Store
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.store = appconfig.NewStore(deps.DB, deps.Notifier)
	s.validator = handler.NewValidator()

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequirePermission(deps.Auth, auth.PermSettingsManage))
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Create)
		router.Put("/:key", s.Set)
		router.Patch("/:key", s.Update)
		router.Delete("/:key", s.Delete)
	})

	return nil
}

// List returns all entries ordered by key.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := s.store.List(c.UserContext())
	if err != nil {
		return handler.Internal(c, err, "failed to list settings")
	}

	return handler.OK(c, entries)
}

// Create adds a key, 409 when it exists.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(EntryInput)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	entry, err := s.store.Create(c.UserContext(), in.Key, in.Value)
	if errors.Is(err, appconfig.ErrEntryAlreadyExists) {
		return handler.Fail(c, fiber.StatusConflict, err.Error())
	}

	if err != nil {
		return handler.Internal(c, err, "failed to create setting")
	}

	s.audit(c, in.Key, "created")

	return handler.Created(c, entry)
}

// Set creates or replaces a key.
func (s *Service) Set(c *fiber.Ctx) error {
	in := new(ValueInput)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	key := c.Params("key")
	if err := s.store.Set(c.UserContext(), key, in.Value); err != nil {
		return handler.Internal(c, err, "failed to save setting")
	}

	s.audit(c, key, "saved")

	return handler.OK(c, fiber.Map{"key": key, "value": in.Value})
}

// Update changes an existing key.
func (s *Service) Update(c *fiber.Ctx) error {
	in := new(ValueInput)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	key := c.Params("key")

	entry, err := s.store.Update(c.UserContext(), key, in.Value)
	if errors.Is(err, appconfig.ErrEntryNotFound) {
		return handler.Fail(c, fiber.StatusNotFound, err.Error())
	}

	if err != nil {
		return handler.Internal(c, err, "failed to update setting")
	}

	s.audit(c, key, "updated")

	return handler.OK(c, entry)
}

// Delete removes a key.
func (s *Service) Delete(c *fiber.Ctx) error {
	key := c.Params("key")

	err := s.store.Delete(c.UserContext(), key)
	if errors.Is(err, appconfig.ErrEntryNotFound) {
		return handler.Fail(c, fiber.StatusNotFound, err.Error())
	}

	if err != nil {
		return handler.Internal(c, err, "failed to delete setting")
	}

	s.audit(c, key, "deleted")

	return handler.OK(c, fiber.Map{"key": key})
}

func (s *Service) audit(c *fiber.Ctx, key, action string) {
	log.Info().Str("key", key).Str("admin", auth.CurrentAdmin(c).Username).Msg("setting " + action)
}
