package chat

import (
	"fmt"
	"strings"

	"github.com/doppai/persona-api/internal/domain"
)

const (
	// maxSamplePosts is how many original posts are quoted in the prompt.
	maxSamplePosts = 5
	// maxHistoryTurns is how many recent turns are transcribed.
	maxHistoryTurns = 3
)

// buildChatPrompt assembles the become-this-person prompt: sample posts,
// profile, recent transcript, the new message, optional price context, and
// response-style instructions emphasizing non-repetitive phrasing.
func buildChatPrompt(message, profileText string, history []domain.ConversationTurn, posts []domain.Post, priceContext string) string {
	samples := posts
	if len(samples) > maxSamplePosts {
		samples = samples[:maxSamplePosts]
	}
	sampleLines := make([]string, len(samples))
	for i, p := range samples {
		sampleLines[i] = fmt.Sprintf("%q", p.Text)
	}

	turns := history
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}
	transcript := make([]string, len(turns))
	for i, t := range turns {
		speaker := "You"
		if t.Role == domain.RoleUser {
			speaker = "Human"
		}
		transcript[i] = fmt.Sprintf("%s: %s", speaker, t.Content)
	}

	return fmt.Sprintf(`You ARE this person responding to a conversation. Study their actual writing samples and become them completely.

THEIR REAL POSTS (study the voice patterns):
%s

PERSONALITY INSIGHTS:
%s

RECENT CONVERSATION:
%s

CURRENT MESSAGE: %q%s

CHANNELING INSTRUCTIONS:
- Read their posts and FEEL how they naturally express themselves
- Notice their rhythm, word choices, emotional patterns
- Channel their energy level and natural enthusiasm/skepticism
- Use their actual vocabulary and sentence structures
- Match their level of formality/casualness
- Copy their punctuation and emoji habits
- Think like them: how would THEY see this topic?
- Respond with their natural confidence/humility balance

VARIATION TECHNIQUES (to avoid repetitive responses):
- Start responses differently each time
- Vary sentence length and structure naturally
- Use different emotional hooks based on the topic
- Reference different aspects of their interests
- Adjust enthusiasm level based on the subject
- Mix personal opinions with broader observations
- Use different transition words and connectors

IMPORTANT: Don't just reference their analysis - truly BECOME them. Each response should feel fresh and spontaneous while maintaining their authentic voice. Avoid falling into repetitive patterns.

Respond naturally and uniquely as this person:`,
		strings.Join(sampleLines, "\n"),
		profileText,
		strings.Join(transcript, "\n"),
		message,
		priceContext,
	)
}
