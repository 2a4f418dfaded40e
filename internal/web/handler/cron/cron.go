// Package cron serves the endpoint an external scheduler calls to run the
// challenge scheduling policy.
package cron

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/autochallenge"
	"github.com/habitrack/habit-admin/internal/web/handler"
)

const (
	// Path of the scheduled trigger endpoint.
	Path = handler.APIPath + "/cron/generate-challenge"

	// MsgDisabled is returned while auto generation is switched off.
	MsgDisabled = "Auto challenge generation is disabled"

	bearerPrefix = "Bearer "
)

// Service is the cron handler service.
type Service struct {
	secret string
	policy handler.AutoChallenger
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the POST and GET routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsMsg)
	}

	if deps.Policy == nil {
		return errors.New("auto challenge policy is nil")
	}

	s.secret = deps.Config.Cron.Secret
	s.policy = deps.Policy

	if s.secret == "" {
		log.Warn().Str("path", Path).Msg("cron secret is empty, endpoint is open")
	}

	app.Post(Path, s.Trigger)
	app.Get(Path, s.Trigger)

	return nil
}

// Authorized compares the bearer token with the secret in constant time.
// An empty secret authorizes everyone.
func (s *Service) Authorized(c *fiber.Ctx) bool {
	if s.secret == "" {
		return true
	}

	want := []byte(bearerPrefix + s.secret)
	got := []byte(c.Get(fiber.HeaderAuthorization))

	return subtle.ConstantTimeCompare(got, want) == 1
}

// Trigger runs the policy as a scheduled trigger.
func (s *Service) Trigger(c *fiber.Ctx) error {
	if !s.Authorized(c) {
		log.Warn().Str("ip", c.IP()).Msg("cron trigger with wrong bearer token")

		return handler.Fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	res, err := s.policy.Run(c.UserContext(), autochallenge.Request{Trigger: autochallenge.TriggerScheduled})
	if err != nil {
		return handler.Fail(c, fiber.StatusInternalServerError, err.Error())
	}

	if res.Outcome == autochallenge.OutcomeDisabled {
		return c.JSON(fiber.Map{
			"success": false,
			"message": MsgDisabled,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Challenge \"%s\" created successfully", res.Title),
		"title":   res.Title,
	})
}
