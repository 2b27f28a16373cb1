// Package profile builds personality profiles from fetched posts. The live
// generation API is tried first; on any failure the service walks a
// three-level fallback chain: generated, keyword-matched static, templated
// heuristic. No level is retried.
package profile

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/metrics"
)

// TextGenerator produces free text from a single prompt. A nil generator
// means the generation API is unavailable (no credential configured).
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service generates personality profiles.
type Service struct {
	generator TextGenerator
	log       zerolog.Logger
}

// NewService creates a profile service. generator may be nil; the service
// then always serves from the fallback chain.
func NewService(generator TextGenerator, log zerolog.Logger) *Service {
	return &Service{
		generator: generator,
		log:       log.With().Str("service", "profile").Logger(),
	}
}

// Generate produces a profile for the given posts. Never returns an error
// for upstream failures; the fallback chain always yields a profile.
func (s *Service) Generate(ctx context.Context, posts []domain.Post) domain.Profile {
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Text
	}

	if s.generator != nil {
		prompt := buildPrompt(texts)
		content, err := s.generator.Generate(ctx, prompt)
		if err == nil && content != "" {
			metrics.UpstreamCalls.WithLabelValues("gemini", "success").Inc()
			s.log.Info().Int("posts", len(posts)).Msg("Profile generated")
			return domain.Profile{
				ID:          uuid.NewString(),
				Content:     content,
				Provenance:  domain.ProvenanceGenerated,
				GeneratedAt: time.Now().UTC(),
			}
		}
		metrics.UpstreamCalls.WithLabelValues("gemini", "failure").Inc()
		s.log.Warn().Err(err).Msg("Generation failed, falling back to static profiles")
	} else {
		s.log.Debug().Msg("No generator configured, using fallback profiles")
	}

	allText := strings.Join(texts, " ")
	if static := matchStaticProfile(allText); static != nil {
		metrics.FallbacksServed.WithLabelValues("profile", "keyword").Inc()
		s.log.Info().Str("profile", static.name).Msg("Keyword-matched static profile selected")
		return domain.Profile{
			ID:          uuid.NewString(),
			Content:     static.content,
			Provenance:  domain.ProvenanceKeyword,
			GeneratedAt: time.Now().UTC(),
		}
	}

	metrics.FallbacksServed.WithLabelValues("profile", "heuristic").Inc()
	s.log.Info().Msg("No keyword match, using heuristic profile")
	return domain.Profile{
		ID:          uuid.NewString(),
		Content:     heuristicProfile(texts),
		Provenance:  domain.ProvenanceHeuristic,
		GeneratedAt: time.Now().UTC(),
	}
}
