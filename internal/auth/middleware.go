package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/db/models"
	fiberlog "github.com/habitrack/habit-admin/internal/logger/adapter/fiber"
)

// LocalsAdmin is the fiber locals key holding the authenticated *models.Admin.
const LocalsAdmin = "admin"

// CurrentAdmin returns the admin stored by the middleware, nil when absent.
func CurrentAdmin(c *fiber.Ctx) *models.Admin {
	a, _ := c.Locals(LocalsAdmin).(*models.Admin)

	return a
}

// RequireAdmin creates Fiber middleware that only requires a signed in admin.
func RequireAdmin(authService *Service) fiber.Handler {
	return RequireAnyPermission(authService)
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return RequireAnyPermission(authService, permission)
}

// RequireAnyPermission creates Fiber middleware that requires at least one of
// the given permissions. Without permissions any active admin passes.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := authService.Authenticate(c)
		if err != nil {
			return deny(c, err)
		}

		c.Locals(LocalsAdmin, a)
		c.Locals(fiberlog.LocalsActor, a.Username)

		if len(permissions) > 0 && !authService.HasAnyPermission(a, permissions) {
			log.Warn().Str("admin", a.Username).Str("role", string(a.Role)).Strs("permissions", permissions).
				Msg("admin lacks required permission")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Forbidden",
			})
		}

		return c.Next()
	}
}

func deny(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrAdminDisabled), errors.Is(err, ErrNotAnAdmin):
		log.Warn().Err(err).Str("ip", c.IP()).Msg("admin access refused")

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Forbidden",
		})
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenAuthDisabled):
		log.Debug().Err(err).Str("ip", c.IP()).Msg("unauthenticated request")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized",
		})
	default:
		log.Error().Err(err).Msg("failed to authenticate request")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal Server Error",
		})
	}
}
