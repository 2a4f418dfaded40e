// Package generator drafts challenge templates, from a built-in pool or from Gemini.
package generator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/habitrack/habit-admin/internal/db/models"
)

const (
	// MinDurationDays is the shortest challenge a generator may propose.
	MinDurationDays = 1
	// MaxDurationDays is the longest challenge a generator may propose.
	MaxDurationDays = 30
	// DefaultMascot is used when a template names none.
	DefaultMascot = "idle"
)

var (
	// ErrInvalidTemplate wraps every validation failure of a generated template.
	ErrInvalidTemplate = errors.New("invalid challenge template")
	// ErrEmptyPool is returned when the template pool has no entries.
	ErrEmptyPool = errors.New("template pool is empty")
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("model returned an empty response")

	hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Mascots the app can render.
var Mascots = []string{"wave", "thinking", "celebrate", "cool", "fishing", "sleeping", "confused", "paywall", "idle"} //nolint:gochecknoglobals,lll

// Template is a proposed challenge. It has no dates, those are decided by the caller.
type Template struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	TitleAr       string               `json:"title_ar,omitempty"`
	TitleEn       string               `json:"title_en,omitempty"`
	DescriptionAr string               `json:"description_ar,omitempty"`
	DescriptionEn string               `json:"description_en,omitempty"`
	Type          models.ChallengeType `json:"type"`
	BgColor       string               `json:"bg_color"`
	DurationDays  int                  `json:"duration_days"`
	Mascot        string               `json:"mascot,omitempty"`
}

// Generator proposes a challenge. topic may be empty.
type Generator interface {
	Generate(ctx context.Context, topic string) (Template, error)
}

// Validate checks type, duration, colour and mascot.
func (t Template) Validate() error {
	switch {
	case strings.TrimSpace(t.Title) == "":
		return fmt.Errorf("%w: empty title", ErrInvalidTemplate)
	case !t.Type.Valid():
		return fmt.Errorf("%w: type %q", ErrInvalidTemplate, t.Type)
	case t.DurationDays < MinDurationDays || t.DurationDays > MaxDurationDays:
		return fmt.Errorf("%w: duration %d days", ErrInvalidTemplate, t.DurationDays)
	case !hexColor.MatchString(t.BgColor):
		return fmt.Errorf("%w: colour %q", ErrInvalidTemplate, t.BgColor)
	case t.Mascot != "" && !slices.Contains(Mascots, t.Mascot):
		return fmt.Errorf("%w: mascot %q", ErrInvalidTemplate, t.Mascot)
	}

	return nil
}

// WithFallbacks fills missing localized fields from the base text and sets
// the default mascot.
func (t Template) WithFallbacks() Template {
	if t.TitleEn == "" {
		t.TitleEn = t.Title
	}
	if t.TitleAr == "" {
		t.TitleAr = t.Title
	}
	if t.DescriptionEn == "" {
		t.DescriptionEn = t.Description
	}
	if t.DescriptionAr == "" {
		t.DescriptionAr = t.Description
	}
	if t.Mascot == "" {
		t.Mascot = DefaultMascot
	}

	return t
}
