package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/baas"
)

// BaaSFail answers an error of the BaaS user directory.
func BaaSFail(c *fiber.Ctx, err error) error {
	var apiErr *baas.APIError

	switch {
	case errors.Is(err, baas.ErrUserNotFound):
		return Fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, baas.ErrUserIDEmpty), errors.Is(err, baas.ErrInvalidBanDuration):
		return Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, baas.ErrNotConfigured):
		return Fail(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.As(err, &apiErr):
		log.Error().Err(err).Int("status", apiErr.Status).Msg("baas request failed")

		return Fail(c, fiber.StatusBadGateway, apiErr.Error())
	default:
		log.Error().Err(err).Msg("baas request failed")

		return Fail(c, fiber.StatusBadGateway, "user directory unavailable")
	}
}

// Internal logs err and answers 500.
func Internal(c *fiber.Ctx, err error, msg string) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(msg)

	return Fail(c, fiber.StatusInternalServerError, msg)
}
