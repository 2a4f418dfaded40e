// Package user provides the app user management routes of the admin area.
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/baas"
	"github.com/habitrack/habit-admin/internal/db/controller/activity"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = handler.AdminPath + "/users"
)

// Row is one user of the list.
type Row struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	IsBanned     bool       `json:"is_banned"`
}

// Page is the list answer. Total counts all users, the search only filters
// the fetched page.
type Page struct {
	Users    []Row `json:"users"`
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Detail is the user detail answer.
type Detail struct {
	User *baas.User `json:"user"`
	*activity.UserActivity
}

// BanInput is the ban body.
type BanInput struct {
	Duration string `json:"duration" validate:"omitempty,max=32"`
}

// Service provides the user routes.
type Service struct {
	db        *gorm.DB
	users     handler.UserDirectory
	validator *validator.Validate
	now       func() time.Time
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() || deps.Users == nil {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.db = deps.DB
	s.users = deps.Users
	s.validator = handler.NewValidator()
	s.now = time.Now

	view := auth.RequirePermission(deps.Auth, auth.PermUsersView)
	manage := auth.RequirePermission(deps.Auth, auth.PermUsersManage)

	app.Get(Path, view, s.List)
	app.Get(Path+"/:id", view, s.Get)
	app.Post(Path+"/:id/ban", manage, s.Ban)
	app.Post(Path+"/:id/unban", manage, s.Unban)
	app.Delete(Path+"/:id", manage, s.Delete)

	return nil
}

// List shows users with pagination and an email search.
func (s *Service) List(c *fiber.Ctx) error {
	page, pageSize := handler.Pagination(c)
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	res, err := s.users.ListUsers(c.UserContext(), page, pageSize)
	if err != nil {
		return handler.BaaSFail(c, err)
	}

	now := s.now()
	out := Page{Users: []Row{}, Total: res.Total, Page: page, PageSize: pageSize}

	for i := range res.Users {
		u := &res.Users[i]
		if search != "" && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}

		out.Users = append(out.Users, Row{
			ID:           u.ID,
			Email:        u.Email,
			CreatedAt:    u.CreatedAt,
			LastSignInAt: u.LastSignInAt,
			IsBanned:     u.IsBanned(now),
		})
	}

	return handler.OK(c, out)
}

// Get returns the auth record and the app activity of a user.
func (s *Service) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	u, err := s.users.GetUser(c.UserContext(), id)
	if err != nil {
		return handler.BaaSFail(c, err)
	}

	act, err := activity.ForUser(c.UserContext(), s.db, id)
	if err != nil {
		return handler.Internal(c, err, "failed to load user activity")
	}

	return handler.OK(c, Detail{User: u, UserActivity: act})
}

// Ban bans a user, for baas.BanForever unless a duration is given.
func (s *Service) Ban(c *fiber.Ctx) error {
	in := new(BanInput)
	if len(c.Body()) > 0 {
		if err := handler.Bind(c, s.validator, in); err != nil {
			return handler.BindFail(c, err)
		}
	}

	if in.Duration == "" {
		in.Duration = baas.BanForever
	}

	id := c.Params("id")
	if err := s.users.BanUser(c.UserContext(), id, in.Duration); err != nil {
		return handler.BaaSFail(c, err)
	}

	log.Info().Str("user", id).Str("duration", in.Duration).Str("admin", auth.CurrentAdmin(c).Username).
		Msg("user banned")

	return handler.OK(c, fiber.Map{"id": id, "duration": in.Duration})
}

// Unban lifts a ban.
func (s *Service) Unban(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.users.UnbanUser(c.UserContext(), id); err != nil {
		return handler.BaaSFail(c, err)
	}

	log.Info().Str("user", id).Str("admin", auth.CurrentAdmin(c).Username).Msg("user unbanned")

	return handler.OK(c, fiber.Map{"id": id})
}

// Delete removes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.users.DeleteUser(c.UserContext(), id); err != nil {
		return handler.BaaSFail(c, err)
	}

	log.Warn().Str("user", id).Str("admin", auth.CurrentAdmin(c).Username).Msg("user deleted")

	return handler.OK(c, fiber.Map{"id": id})
}
