package autochallenge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/generator"
)

// Trigger tells who asked for an evaluation.
type Trigger string

const (
	// TriggerScheduled is an external scheduler, it respects the enabled switch.
	TriggerScheduled Trigger = "scheduled"
	// TriggerManual is an admin, it bypasses the enabled switch.
	TriggerManual Trigger = "manual"
)

// Outcome of an evaluation.
type Outcome string

// Outcomes.
const (
	OutcomeCreated  Outcome = "created"
	OutcomeDisabled Outcome = "disabled"
	OutcomeFailed   Outcome = "failed"
)

// ConfigStore reads and writes app_config entries.
type ConfigStore interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

// ChallengeRepository stores challenges.
type ChallengeRepository interface {
	Insert(ctx context.Context, c *models.Challenge) error
}

// Result of Evaluate. Challenge is set when Outcome is OutcomeCreated.
// LastRunRecorded is false when the challenge was stored but the run time
// could not be written.
type Result struct {
	Outcome         Outcome
	Title           string
	Challenge       *models.Challenge
	LastRunRecorded bool
}

// Request is an evaluation with an optional generator topic.
type Request struct {
	Trigger Trigger
	Topic   string
}

// Policy creates challenges on demand. Calls are not idempotent and not
// serialized: two calls create two challenges.
type Policy struct {
	Config     ConfigStore
	Challenges ChallengeRepository
	Generator  generator.Generator
	// Location decides which calendar day "tomorrow" is, UTC when nil.
	Location *time.Location
	// Now is time.Now when nil.
	Now func() time.Time
}

// Evaluate runs the policy for trigger without a topic.
func (p *Policy) Evaluate(ctx context.Context, trigger Trigger) (Result, error) {
	return p.Run(ctx, Request{Trigger: trigger})
}

// Run reads the config once, generates, stores and records the run time.
// Errors wrap ErrConfigStore, ErrGeneration or ErrPersistence.
func (p *Policy) Run(ctx context.Context, req Request) (Result, error) {
	res, err := p.run(ctx, req)

	runsCounter().WithLabelValues(string(req.Trigger), string(res.Outcome)).Inc()

	logEvent := log.Info()
	if err != nil {
		logEvent = log.Error().Err(err)
	}

	logEvent.Str("trigger", string(req.Trigger)).
		Str("outcome", string(res.Outcome)).
		Str("title", res.Title).
		Bool("last_run_recorded", res.LastRunRecorded).
		Msg("auto challenge evaluated")

	return res, err
}

func (p *Policy) run(ctx context.Context, req Request) (Result, error) {
	entries, err := p.Config.GetAll(ctx)
	if err != nil {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("%w: %w", ErrConfigStore, err)
	}

	state := ParseState(entries)

	if req.Trigger != TriggerManual && !state.Enabled {
		return Result{Outcome: OutcomeDisabled}, nil
	}

	tpl, err := p.Generator.Generate(ctx, req.Topic)
	if err != nil {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	challengeType := tpl.Type
	if forced, ok := state.PreferredType.Override(); ok {
		challengeType = forced
	}

	now := p.now()
	start, end := ChallengeDates(now, p.Location, tpl.DurationDays)

	c := &models.Challenge{
		Title:         tpl.Title,
		Description:   tpl.Description,
		TitleAr:       tpl.TitleAr,
		TitleEn:       tpl.TitleEn,
		DescriptionAr: tpl.DescriptionAr,
		DescriptionEn: tpl.DescriptionEn,
		Type:          challengeType,
		BgColor:       tpl.BgColor,
		StartDate:     start,
		EndDate:       end,
		Mascot:        tpl.Mascot,
	}

	if err = p.Challenges.Insert(ctx, c); err != nil {
		return Result{Outcome: OutcomeFailed, Title: tpl.Title}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	res := Result{Outcome: OutcomeCreated, Title: c.Title, Challenge: c, LastRunRecorded: true}

	if err = p.Config.Set(ctx, models.KeyAutoChallengeLastRun, now.UTC().Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Str("challenge", c.ID).Msg("challenge created but last run time not recorded")

		res.LastRunRecorded = false
	}

	return res, nil
}

func (p *Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}

	return time.Now()
}
