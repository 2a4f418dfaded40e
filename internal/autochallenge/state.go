package autochallenge

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/db/models"
)

// PreferredType is the configured challenge type.
type PreferredType string

// Preferred types.
const (
	PreferDaily  PreferredType = "daily"
	PreferWeekly PreferredType = "weekly"
	PreferBoth   PreferredType = "both"
)

// Defaults applied when an entry is missing or invalid.
const (
	DefaultIntervalHours = 24
	DefaultPreferredType = PreferBoth
)

// AllowedIntervals are the interval choices offered to admins.
var AllowedIntervals = []int{6, 12, 24, 48, 168} //nolint:gochecknoglobals

// State is the typed view of the auto challenge config entries.
type State struct {
	Enabled       bool          `json:"enabled"`
	IntervalHours int           `json:"interval_hours"`
	PreferredType PreferredType `json:"type"`
	LastRun       *time.Time    `json:"last_run"`
}

// Override returns the challenge type forced by the preference, if any.
func (p PreferredType) Override() (models.ChallengeType, bool) {
	switch p {
	case PreferDaily:
		return models.ChallengeDaily, true
	case PreferWeekly:
		return models.ChallengeWeekly, true
	default:
		return "", false
	}
}

// Valid reports whether p is daily, weekly or both.
func (p PreferredType) Valid() bool {
	return p == PreferDaily || p == PreferWeekly || p == PreferBoth
}

// ParseState builds a State from config entries. Only the exact value
// "true" enables generation, anything unparsable falls back to the default.
func ParseState(entries map[string]string) State {
	s := State{
		Enabled:       entries[models.KeyAutoChallengeEnabled] == "true",
		IntervalHours: DefaultIntervalHours,
		PreferredType: DefaultPreferredType,
	}

	if raw, ok := entries[models.KeyAutoChallengeIntervalHours]; ok && raw != "" {
		h, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || h <= 0 {
			log.Warn().Str("key", models.KeyAutoChallengeIntervalHours).Str("value", raw).
				Int("default", DefaultIntervalHours).Msg("invalid config value, using default")
		} else {
			s.IntervalHours = h
		}
	}

	if raw, ok := entries[models.KeyAutoChallengeType]; ok && raw != "" {
		p := PreferredType(raw)
		if p.Valid() {
			s.PreferredType = p
		} else {
			log.Warn().Str("key", models.KeyAutoChallengeType).Str("value", raw).
				Str("default", string(DefaultPreferredType)).Msg("invalid config value, using default")
		}
	}

	if raw, ok := entries[models.KeyAutoChallengeLastRun]; ok && raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			log.Warn().Str("key", models.KeyAutoChallengeLastRun).Str("value", raw).Msg("invalid config value, ignoring")
		} else {
			t = t.UTC()
			s.LastRun = &t
		}
	}

	return s
}

// NextRun is LastRun plus the interval. It is advisory, nil when the
// generator never ran.
func (s State) NextRun() *time.Time {
	if s.LastRun == nil {
		return nil
	}

	next := s.LastRun.Add(time.Duration(s.IntervalHours) * time.Hour)

	return &next
}
