// Package staff provides the routes managing back office admins.
package staff

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/db/controller/admin"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

const (
	// Path is the base path for admin management.
	Path = handler.AdminPath + "/admins"
)

// PromoteInput is the body of POST /admins.
type PromoteInput struct {
	UserID string      `json:"user_id" validate:"required,max=64"`
	Email  string      `json:"email"   validate:"omitempty,email"`
	Role   models.Role `json:"role"    validate:"required,oneof=super_admin support"`
}

// Service provides the admin routes.
type Service struct {
	db        *gorm.DB
	users     handler.UserDirectory
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
	s.users = deps.Users
	s.validator = handler.NewValidator()

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequirePermission(deps.Auth, auth.PermAdminsManage))
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Promote)
		router.Delete("/:id", s.Remove)
	})

	return nil
}

// List returns all admins.
func (s *Service) List(c *fiber.Ctx) error {
	admins, err := admin.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Internal(c, err, "failed to list admins")
	}

	return handler.OK(c, admins)
}

// Promote grants a role to a BaaS user. A missing email is looked up in the
// user directory.
func (s *Service) Promote(c *fiber.Ctx) error {
	in := new(PromoteInput)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	if in.Email == "" && s.users != nil {
		u, err := s.users.GetUser(c.UserContext(), in.UserID)
		if err != nil {
			return handler.BaaSFail(c, err)
		}

		in.Email = u.Email
	}

	a, err := admin.Promote(c.UserContext(), s.db, in.UserID, in.Email, in.Role)
	if err != nil {
		if errors.Is(err, admin.ErrInvalidRole) || errors.Is(err, admin.ErrUserIDEmpty) {
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		return handler.Internal(c, err, "failed to promote user")
	}

	log.Info().Str("user", in.UserID).Str("role", string(in.Role)).Str("by", auth.CurrentAdmin(c).Username).
		Msg("admin promoted")

	return handler.Created(c, a)
}

// Remove demotes an admin. The last active super admin stays.
func (s *Service) Remove(c *fiber.Ctx) error {
	id := c.Params("id")

	err := admin.Remove(c.UserContext(), s.db, id)

	switch {
	case errors.Is(err, admin.ErrAdminNotFound):
		return handler.Fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, admin.ErrLastSuperAdmin):
		return handler.Fail(c, fiber.StatusConflict, err.Error())
	case err != nil:
		return handler.Internal(c, err, "failed to remove admin")
	}

	log.Info().Str("admin", id).Str("by", auth.CurrentAdmin(c).Username).Msg("admin removed")

	return handler.OK(c, fiber.Map{"id": id})
}
