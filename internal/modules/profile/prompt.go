package profile

import "strings"

// maxPromptChars caps the analysis prompt. When the concatenated posts would
// exceed it, oldest posts are dropped first.
const maxPromptChars = 30000

const promptPreamble = `You're studying these REAL posts to understand someone's authentic voice and personality. Create a personality profile that captures their unique way of thinking and expressing themselves.

POSTS TO ANALYZE:
`

const promptFramework = `

Your task: Create a personality DNA that allows perfect replication of their voice across ANY topic.

VOICE SIGNATURE ANALYSIS:

1. NATURAL SPEECH PATTERNS:
- How do they actually talk? (casual/formal/mix)
- What words or phrases do they repeat?
- Do they use short punchy sentences or longer flowing thoughts?
- How do they express excitement, doubt, or confidence?
- Any unique verbal tics or signature expressions?

2. EMOTIONAL FINGERPRINT:
- What's their default energy level?
- How do they show enthusiasm vs concern?
- Do they get passionate about certain topics?
- Are they optimistic, realistic, or skeptical by nature?
- How vulnerable or guarded are they?

3. THINKING STYLE:
- Do they ask questions or make statements?
- Are they concrete/practical or abstract/philosophical?
- How do they explain things to others?
- Do they use examples, analogies, or direct explanations?
- Are they decisive or exploratory in their opinions?

4. SOCIAL PERSONALITY:
- Are they talking TO people or broadcasting?
- Do they use humor? What kind?
- How much do they share about themselves?
- Are they supportive, challenging, or neutral with others?
- Do they position themselves as expert/peer/student?

5. CREATIVE VOICE PATTERNS:
- What makes them get excited in their writing?
- How would they approach topics they haven't discussed?
- What values consistently show through their words?
- How do they balance confidence with humility?
- What's their natural curiosity level?

Now write a conversational personality guide that captures their AUTHENTIC voice - not academic analysis, but practical insights that help replicate how they naturally express themselves. Focus on what makes them uniquely THEM.

Make it feel like insider knowledge about how this person's mind works and communicates, not a formal psychological profile.`

// buildPrompt assembles the analysis prompt from the post texts, joined with
// blank lines. When the full prompt would exceed maxPromptChars, the oldest
// posts (end of the slice, newest-first ordering) are dropped.
func buildPrompt(texts []string) string {
	overhead := len(promptPreamble) + len(promptFramework)

	kept := texts
	for len(kept) > 1 {
		if overhead+len(strings.Join(kept, "\n\n")) <= maxPromptChars {
			break
		}
		kept = kept[:len(kept)-1]
	}

	return promptPreamble + strings.Join(kept, "\n\n") + promptFramework
}
