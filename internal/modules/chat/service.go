// Package chat relays conversation turns through the generation API in the
// voice of a previously generated profile, enriching the prompt with live
// price data for any detected tickers. Upstream failures never surface;
// canned responses cover every failure mode.
package chat

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/doppai/persona-api/internal/domain"
	"github.com/doppai/persona-api/internal/metrics"
)

// TextGenerator produces free text from a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuoteFetcher looks up current market data for a ticker symbol. A nil
// quote with nil error means the symbol did not resolve.
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (*domain.CoinQuote, error)
}

// Source tags for the chat response payload.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// Response is the outcome of one chat turn.
type Response struct {
	Text   string
	Source string
}

// Service answers chat turns in the profile's voice.
type Service struct {
	generator TextGenerator
	quotes    QuoteFetcher
	rng       RandSource
	log       zerolog.Logger
}

// NewService creates a chat service. generator and quotes may be nil; the
// service then serves canned responses and skips price context respectively.
func NewService(generator TextGenerator, quotes QuoteFetcher, rng RandSource, log zerolog.Logger) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		generator: generator,
		quotes:    quotes,
		rng:       rng,
		log:       log.With().Str("service", "chat").Logger(),
	}
}

// Respond produces a reply to message in the profile's voice.
func (s *Service) Respond(ctx context.Context, message, profileText string, history []domain.ConversationTurn, posts []domain.Post) Response {
	symbols := DetectTickers(message)
	if len(symbols) > 0 {
		s.log.Debug().Strs("symbols", symbols).Msg("Detected tickers")
	}

	quotes := s.lookupQuotes(ctx, symbols)
	priceContext := formatPriceContext(quotes)

	if s.generator != nil {
		prompt := buildChatPrompt(message, profileText, history, posts, priceContext)
		text, err := s.generator.Generate(ctx, prompt)
		if err == nil && text != "" {
			metrics.UpstreamCalls.WithLabelValues("gemini", "success").Inc()
			return Response{Text: text, Source: SourceGenerated}
		}
		metrics.UpstreamCalls.WithLabelValues("gemini", "failure").Inc()
		s.log.Warn().Err(err).Msg("Chat generation failed, using canned response")
	} else {
		s.log.Debug().Msg("No generator configured, using canned response")
	}

	metrics.FallbacksServed.WithLabelValues("chat", "canned").Inc()
	return Response{
		Text:   fallbackResponse(message, profileText, s.rng),
		Source: SourceFallback,
	}
}

// lookupQuotes fetches market data for the detected symbols. Lookups for
// distinct symbols run concurrently; a failed or unresolved lookup is dropped
// silently and does not block the others. Result order follows symbol order.
func (s *Service) lookupQuotes(ctx context.Context, symbols []string) []domain.CoinQuote {
	if s.quotes == nil || len(symbols) == 0 {
		return nil
	}

	results := make([]*domain.CoinQuote, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.quotes.GetQuote(gctx, symbol)
			if err != nil {
				metrics.UpstreamCalls.WithLabelValues("coingecko", "failure").Inc()
				s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote lookup failed, dropping from context")
				return nil
			}
			metrics.UpstreamCalls.WithLabelValues("coingecko", "success").Inc()
			results[i] = quote
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]domain.CoinQuote, 0, len(symbols))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}
