// Package login provides the local admin sign in, profile and two factor routes.
package login

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/auth"
	"github.com/habitrack/habit-admin/internal/config"
	"github.com/habitrack/habit-admin/internal/web/handler"
	"github.com/habitrack/habit-admin/internal/web/navigation"
	"github.com/habitrack/habit-admin/internal/web/session"
)

const (
	// Path is the base path of the auth routes.
	Path = handler.APIPath + "/auth"
)

// Credentials is the login body.
type Credentials struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=256"`
	Code     string `json:"code"     validate:"omitempty,numeric,len=6"`
}

// TOTPRequest enrolls or removes two factor login. Without a code a new
// secret is proposed.
type TOTPRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"   validate:"omitempty,numeric,len=6"`
}

// Service is the login handler service.
type Service struct {
	cfg       *config.Config
	auth      *auth.Service
	validator *validator.Validate
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	s.cfg = deps.Config
	s.auth = deps.Auth
	s.validator = handler.NewValidator()

	requireAdmin := auth.RequireAdmin(s.auth)

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", s.Post)
		router.Get("/me", requireAdmin, s.Me)
		router.Post("/totp", requireAdmin, s.EnableTOTP)
		router.Delete("/totp", requireAdmin, s.DisableTOTP)
	})

	return nil
}

// Post handles the login body.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(Credentials)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	a, err := s.auth.Local.Authenticate(c.UserContext(), in.Username, in.Password, in.Code)

	switch {
	case errors.Is(err, auth.ErrTOTPRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success":       false,
			"error":         err.Error(),
			"totp_required": true,
		})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidTOTP):
		log.Warn().Str("username", in.Username).Str("ip", c.IP()).Msg("failed login")

		return handler.Fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrAdminDisabled):
		return handler.Fail(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("login failed")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}

	sessionID := session.GenerateSessionID()
	userSession := &session.Data{
		Admin:    *a,
		LoggedIn: time.Now().UTC(),
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Str("admin", a.Username).Msg(ErrSessionNotStored.Error())

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   s.cfg.Webserver.SecureCookies && !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Str("admin", a.Username).Str("ip", c.IP()).Msg("admin signed in")

	return handler.OK(c, fiber.Map{
		"admin":       a,
		"permissions": s.auth.AdminPermissions(a),
	})
}

// Me returns the signed in admin, its permissions and its menu.
func (s *Service) Me(c *fiber.Ctx) error {
	a := auth.CurrentAdmin(c)
	perms := s.auth.AdminPermissions(a)

	return handler.OK(c, fiber.Map{
		"admin":        a,
		"permissions":  perms,
		"navigation":   navigation.Menu(perms),
		"totp_enabled": a.HasTOTP(),
	})
}

// EnableTOTP proposes a secret, or stores it once a code confirms it.
func (s *Service) EnableTOTP(c *fiber.Ctx) error {
	a := auth.CurrentAdmin(c)

	in := new(TOTPRequest)
	if len(c.Body()) > 0 {
		if err := handler.Bind(c, s.validator, in); err != nil {
			return handler.BindFail(c, err)
		}
	}

	if in.Code == "" {
		key, err := s.auth.Local.NewTOTPKey(a)
		if err != nil {
			return totpFail(c, err)
		}

		return handler.OK(c, fiber.Map{
			"secret": key.Secret(),
			"url":    key.URL(),
		})
	}

	if err := s.auth.Local.EnableTOTP(c.UserContext(), a, in.Secret, in.Code); err != nil {
		return totpFail(c, err)
	}

	log.Info().Str("admin", a.Username).Msg("two factor login enabled")

	return handler.OK(c, fiber.Map{"totp_enabled": true})
}

// DisableTOTP removes two factor login after checking a current code.
func (s *Service) DisableTOTP(c *fiber.Ctx) error {
	a := auth.CurrentAdmin(c)

	in := new(TOTPRequest)
	if err := handler.Bind(c, s.validator, in); err != nil {
		return handler.BindFail(c, err)
	}

	if err := s.auth.Local.DisableTOTP(c.UserContext(), a, in.Code); err != nil {
		return totpFail(c, err)
	}

	log.Info().Str("admin", a.Username).Msg("two factor login disabled")

	return handler.OK(c, fiber.Map{"totp_enabled": false})
}

func totpFail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidTOTP):
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrNotLocalAdmin):
		return handler.Fail(c, fiber.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("two factor update failed")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError.Error())
	}
}
