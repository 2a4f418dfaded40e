package generator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/habitrack/habit-admin/internal/config"
)

// New returns the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.Generator) (Generator, error) {
	switch cfg.Provider {
	case config.GeneratorGemini:
		g, err := NewGeminiGenerator(ctx, GeminiConfig{
			APIKey:          cfg.APIKey,
			Model:           cfg.Model,
			MaxOutputTokens: cfg.MaxOutputTokens,
			Timeout:         cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}

		log.Info().Str("model", g.model).Msg("challenge generator: gemini")

		return g, nil
	case config.GeneratorTemplate, "":
		log.Info().Int("templates", len(DefaultPool)).Msg("challenge generator: built-in templates")

		return NewTemplateGenerator(), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownGenerator, cfg.Provider)
	}
}
