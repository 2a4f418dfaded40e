package generator

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/habitrack/habit-admin/internal/db/models"
)

// DefaultPool is the built-in set of bilingual templates.
var DefaultPool = []Template{ //nolint:gochecknoglobals
	{
		Title:         "Early Bird",
		Description:   "Wake up before 6 AM for 5 days in a row.",
		TitleAr:       "الطائر المبكر",
		DescriptionAr: "استيقظ قبل السادسة صباحاً لمدة 5 أيام متتالية.",
		Type:          models.ChallengeDaily,
		BgColor:       "#F59E0B",
		DurationDays:  5,
		Mascot:        "wave",
	},
	{
		Title:         "Hydration Hero",
		Description:   "Drink 3 liters of water every day.",
		TitleAr:       "بطل الترطيب",
		DescriptionAr: "اشرب 3 لترات من الماء كل يوم.",
		Type:          models.ChallengeDaily,
		BgColor:       "#3B82F6",
		DurationDays:  7,
		Mascot:        "cool",
	},
	{
		Title:         "Read 30 Pages",
		Description:   "Focus on reading at least 30 pages of a book.",
		TitleAr:       "اقرأ 30 صفحة",
		DescriptionAr: "ركّز على قراءة 30 صفحة على الأقل من كتاب.",
		Type:          models.ChallengeDaily,
		BgColor:       "#10B981",
		DurationDays:  3,
		Mascot:        "thinking",
	},
	{
		Title:         "No Sugar Week",
		Description:   "Avoid all added sugars for a whole week.",
		TitleAr:       "أسبوع بلا سكر",
		DescriptionAr: "تجنب كل السكريات المضافة لمدة أسبوع كامل.",
		Type:          models.ChallengeWeekly,
		BgColor:       "#EF4444",
		DurationDays:  7,
		Mascot:        "celebrate",
	},
	{
		Title:         "Meditation Master",
		Description:   "Meditate for 10 minutes daily.",
		TitleAr:       "سيد التأمل",
		DescriptionAr: "تأمل لمدة 10 دقائق يومياً.",
		Type:          models.ChallengeDaily,
		BgColor:       "#8B5CF6",
		DurationDays:  14,
		Mascot:        "sleeping",
	},
	{
		Title:         "Step It Up",
		Description:   "Walk 8,000 steps on five days this week.",
		TitleAr:       "خطوة للأمام",
		DescriptionAr: "امشِ 8000 خطوة في خمسة أيام هذا الأسبوع.",
		Type:          models.ChallengeWeekly,
		BgColor:       "#14B8A6",
		DurationDays:  7,
		Mascot:        "fishing",
	},
}

// TemplateGenerator picks a random template from a pool. A topic narrows the
// pool to templates mentioning it, an unmatched topic keeps the whole pool.
type TemplateGenerator struct {
	pool []Template
	intN func(n int) int
}

// TemplateOption configures a TemplateGenerator.
type TemplateOption func(*TemplateGenerator)

// WithPool replaces DefaultPool.
func WithPool(pool []Template) TemplateOption {
	return func(g *TemplateGenerator) {
		g.pool = pool
	}
}

// WithIntN replaces the random source, intN must return a value in [0,n).
func WithIntN(intN func(n int) int) TemplateOption {
	return func(g *TemplateGenerator) {
		g.intN = intN
	}
}

// NewTemplateGenerator returns a generator over DefaultPool.
func NewTemplateGenerator(opts ...TemplateOption) *TemplateGenerator {
	g := &TemplateGenerator{pool: DefaultPool, intN: rand.IntN}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate implements Generator.
func (g *TemplateGenerator) Generate(ctx context.Context, topic string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err //nolint:wrapcheck
	}

	candidates := g.filter(topic)
	if len(candidates) == 0 {
		return Template{}, ErrEmptyPool
	}

	return candidates[g.intN(len(candidates))], nil
}

func (g *TemplateGenerator) filter(topic string) []Template {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return g.pool
	}

	var matched []Template

	for _, t := range g.pool {
		text := strings.ToLower(t.Title + " " + t.Description + " " + t.TitleAr + " " + t.DescriptionAr)
		if strings.Contains(text, topic) {
			matched = append(matched, t)
		}
	}

	if len(matched) == 0 {
		return g.pool
	}

	return matched
}
