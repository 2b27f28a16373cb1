// Package gemini wraps the generative-text API. The client fails closed:
// without a configured credential it cannot be constructed, and callers fall
// back to their static response paths.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/doppai/persona-api/internal/apierrors"
)

const requestTimeout = 30 * time.Second

// Client for the Gemini generation API.
type Client struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewClient creates a new Gemini client. An empty API key is a hard error;
// there is deliberately no baked-in default credential.
func NewClient(ctx context.Context, apiKey, model string, log zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, apierrors.New(apierrors.KindUpstream, "no Gemini API key configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		log:    log.With().Str("client", "gemini").Logger(),
	}, nil
}

// Generate sends a single prompt and returns the response text.
// Single attempt; the caller owns the fallback chain.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	c.log.Debug().Int("prompt_chars", len(prompt)).Msg("Calling generation API")

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apierrors.Wrap(apierrors.KindTimeout, "generation timed out", err)
		}
		return "", apierrors.Wrap(apierrors.KindUpstream, "generation failed", err)
	}

	if result == nil || len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", apierrors.New(apierrors.KindUpstream, "generation returned no content")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	c.log.Info().Int("response_chars", len(text)).Msg("Generation successful")
	return text, nil
}
