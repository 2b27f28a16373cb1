package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppai/persona-api/internal/domain"
)

// fakeGenerator is a canned TextGenerator for tests.
type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func postsWithTexts(texts ...string) []domain.Post {
	out := make([]domain.Post, len(texts))
	for i, text := range texts {
		out[i] = domain.Post{ID: "p", Text: text, CreatedAt: time.Now().UTC()}
	}
	return out
}

func TestGenerateUsesGenerator(t *testing.T) {
	gen := &fakeGenerator{response: "A bold, direct communicator."}
	service := NewService(gen, testLogger())

	profile := service.Generate(context.Background(), postsWithTexts("Going to Mars", "Rockets are cool"))

	assert.Equal(t, domain.ProvenanceGenerated, profile.Provenance)
	assert.Equal(t, "A bold, direct communicator.", profile.Content)
	assert.NotEmpty(t, profile.ID)
	assert.False(t, profile.GeneratedAt.IsZero())

	// The prompt carries the post texts
	assert.Contains(t, gen.prompt, "Going to Mars")
	assert.Contains(t, gen.prompt, "Rockets are cool")
}

func TestGenerateFallsBackToKeywordProfile(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	service := NewService(gen, testLogger())

	profile := service.Generate(context.Background(), postsWithTexts("Mars colonization is the future"))

	assert.Equal(t, domain.ProvenanceKeyword, profile.Provenance)
	assert.Contains(t, profile.Content, "Space exploration and Mars colonization")
}

func TestGenerateKeywordTableOrder(t *testing.T) {
	// Posts hitting keywords from two entries; the earlier entry wins
	service := NewService(nil, testLogger())

	profile := service.Generate(context.Background(),
		postsWithTexts("Dogecoin and responsible AI in one post"))

	assert.Equal(t, domain.ProvenanceKeyword, profile.Provenance)
	assert.Contains(t, profile.Content, "Dogecoin")
	assert.NotContains(t, profile.Content, "democratizing access")
}

func TestGenerateHeuristicWhenNoKeywordMatches(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("unavailable")}
	service := NewService(gen, testLogger())

	profile := service.Generate(context.Background(),
		postsWithTexts("Had a great lunch today! 🚀", "What should I cook tomorrow?"))

	assert.Equal(t, domain.ProvenanceHeuristic, profile.Provenance)
	assert.Contains(t, profile.Content, "Based on the analysis of 2 posts")
	assert.Contains(t, profile.Content, "Uses emojis")
	assert.Contains(t, profile.Content, "exclamation")
	assert.Contains(t, profile.Content, "questions")
}

func TestGenerateWithNilGeneratorSkipsAPI(t *testing.T) {
	service := NewService(nil, testLogger())

	profile := service.Generate(context.Background(), postsWithTexts("grateful for this journey"))

	assert.Equal(t, domain.ProvenanceKeyword, profile.Provenance)
}

func TestGenerateEmptyResponseFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: ""}
	service := NewService(gen, testLogger())

	profile := service.Generate(context.Background(), postsWithTexts("plain text"))

	assert.NotEqual(t, domain.ProvenanceGenerated, profile.Provenance)
}

func TestMatchStaticProfileIsCaseInsensitive(t *testing.T) {
	match := matchStaticProfile("THINKING ABOUT MARS TODAY")
	require.NotNil(t, match)
	assert.Equal(t, "space-visionary", match.name)

	assert.Nil(t, matchStaticProfile("nothing relevant here"))
}

func TestBuildPromptDropsOldestPostsOverBudget(t *testing.T) {
	// Posts are ordered newest-first; the trailing (oldest) entries are the
	// ones dropped when the prompt would exceed the budget.
	long := []string{"newest post marker"}
	filler := strings.Repeat("x", 5000)
	for i := 0; i < 8; i++ {
		long = append(long, filler)
	}

	prompt := buildPrompt(long)

	assert.LessOrEqual(t, len(prompt), maxPromptChars)
	assert.Contains(t, prompt, "newest post marker")
}
