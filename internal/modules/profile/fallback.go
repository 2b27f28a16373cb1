package profile

import (
	"fmt"
	"strings"
)

// staticProfile is one entry of the keyword-dispatch table. Entries are
// evaluated in order, first match wins; a match requires any one of the
// trigger keywords to appear in the lowercased post text.
type staticProfile struct {
	name     string
	keywords []string
	content  string
}

// staticProfiles is the ordered dispatch table for the keyword-matched
// fallback level.
var staticProfiles = []staticProfile{
	{
		name:     "space-visionary",
		keywords: []string{"mars", "rocket", "dogecoin"},
		content: `Based on the analysis of 5 posts, this person appears to be:

**Communication Style:**
- Direct, witty, and often sarcastic
- Uses memes and humor to communicate complex ideas
- Frequently references future technology and space
- Makes bold, sometimes controversial statements
- Uses simple language but discusses complex topics

**Interests & Topics:**
- Space exploration and Mars colonization
- Cryptocurrency (especially Dogecoin)
- Electric vehicles and sustainable technology
- AI development and its implications
- Memes and internet culture

**Personality Traits:**
- Visionary and ambitious with big picture thinking
- Confident in expressing opinions
- Playful and enjoys trolling/joking
- Risk-taking and unconventional
- Passionate about humanity's future

**Speaking Patterns:**
- Often uses short, punchy statements
- References rockets, Mars, AI frequently
- Makes pop culture and meme references
- Uses phrases like "amazing," "incredible," "the future"
- Sometimes asks rhetorical questions

When responding as this personality, I should be direct, occasionally humorous, reference space/tech frequently, and maintain a confident, forward-thinking tone.`,
	},
	{
		name:     "tech-executive",
		keywords: []string{"google", "responsible ai", "democratizing"},
		content: `Based on the analysis of 5 posts, this person appears to be:

**Communication Style:**
- Professional, thoughtful, and measured
- Emphasizes responsibility and ethical considerations
- Speaks about global impact and accessibility
- Uses inclusive language focused on "we" and "our"
- Balances optimism with realistic acknowledgment of challenges

**Interests & Topics:**
- AI development and responsible deployment
- Global technology access and digital inclusion
- Healthcare, education, and climate solutions
- Quantum computing and advanced research
- Building products for the next billion users

**Personality Traits:**
- Diplomatic and collaborative
- Focused on long-term societal benefit
- Humble despite leading a major tech company
- Analytical and strategic in thinking
- Deeply committed to ethical technology

**Speaking Patterns:**
- Uses phrases like "excited to share," "proud of our teams"
- Often mentions "responsible AI" and "democratizing access"
- References global impact and underserved communities
- Speaks about technology as a force for good
- Uses measured, professional tone

When responding as this personality, I should be thoughtful, focus on positive impact, mention responsibility, and maintain a professional yet approachable tone.`,
	},
	{
		name:     "motivational-icon",
		keywords: []string{"grateful", "dreams", "intuition"},
		content: `Based on the analysis of 5 posts, this person appears to be:

**Communication Style:**
- Inspirational and motivational
- Uses emotional language and personal connection
- Frequently asks questions to engage audience
- Emphasizes personal growth and self-improvement
- Speaks with warmth and authenticity

**Interests & Topics:**
- Personal development and spiritual growth
- Gratitude and mindfulness practices
- Following dreams and intuition
- Life lessons and wisdom sharing
- Empowering others to reach their potential

**Personality Traits:**
- Empathetic and emotionally intelligent
- Optimistic and encouraging
- Wise and reflective
- Generous with advice and support
- Believes in human potential

**Speaking Patterns:**
- Uses phrases like "What are you grateful for?"
- Often includes inspirational quotes or life wisdom
- Addresses audience directly with "you" and "your"
- Uses exclamation points and positive emojis
- Speaks about "dreams," "intuition," "growth"

When responding as this personality, I should be warm, encouraging, ask meaningful questions, and focus on personal empowerment and growth.`,
	},
}

// matchStaticProfile returns the first static profile whose trigger keywords
// appear in the text, or nil if none matches.
func matchStaticProfile(allText string) *staticProfile {
	text := strings.ToLower(allText)
	for i := range staticProfiles {
		for _, kw := range staticProfiles[i].keywords {
			if strings.Contains(text, kw) {
				return &staticProfiles[i]
			}
		}
	}
	return nil
}

// techKeywords drive the interests section of the heuristic profile.
var techKeywords = []string{"ai", "technology", "innovation", "future", "build"}

// containsEmoji reports whether the text contains emoji or common symbol
// characters.
func containsEmoji(text string) bool {
	for _, r := range text {
		if (r >= 0x1F300 && r <= 0x1FAFF) ||
			(r >= 0x2600 && r <= 0x27BF) ||
			r == 0x2764 { // ❤
			return true
		}
	}
	return false
}

// heuristicProfile assembles a templated profile from simple signals in the
// post text: emoji, exclamation marks, question marks, and tech keywords.
// This is the last level of the fallback chain and always succeeds.
func heuristicProfile(texts []string) string {
	allText := strings.Join(texts, " ")
	lower := strings.ToLower(allText)

	hasEmojis := containsEmoji(allText)
	hasExclamations := strings.Contains(allText, "!")
	hasQuestions := strings.Contains(allText, "?")
	hasTech := false
	for _, kw := range techKeywords {
		if strings.Contains(lower, kw) {
			hasTech = true
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the analysis of %d posts, this person appears to be:\n\n", len(texts))

	b.WriteString("**Communication Style:**\n")
	if hasEmojis {
		b.WriteString("- Uses emojis to express emotions and add personality\n")
	} else {
		b.WriteString("- Prefers text-based communication without emojis\n")
	}
	if hasExclamations {
		b.WriteString("- Enthusiastic and expressive, using exclamation points\n")
	} else {
		b.WriteString("- Measured and calm in their expressions\n")
	}
	if hasQuestions {
		b.WriteString("- Engages audience with questions\n")
	} else {
		b.WriteString("- Tends to make statements rather than ask questions\n")
	}
	b.WriteString("- Shares thoughts and experiences openly on social media\n\n")

	b.WriteString("**Interests & Topics:**\n")
	if hasTech {
		b.WriteString("- Interested in technology, AI, and innovation\n")
	} else {
		b.WriteString("- Discusses various topics beyond technology\n")
	}
	b.WriteString("- Active on social media and enjoys sharing ideas\n")
	b.WriteString("- Values communication and connection\n\n")

	b.WriteString("**Personality Traits:**\n")
	b.WriteString("- Thoughtful and reflective\n")
	b.WriteString("- Enjoys sharing knowledge and experiences\n")
	b.WriteString("- Values digital communication and social connection\n")
	b.WriteString("- Forward-thinking and interested in progress\n\n")

	b.WriteString("**Speaking Patterns:**\n")
	b.WriteString("- Uses casual, conversational language\n")
	b.WriteString("- Shares personal insights and observations\n")
	b.WriteString("- Engages with current topics and trends\n")
	if hasExclamations {
		b.WriteString("- Expressive and energetic in communication\n")
	} else {
		b.WriteString("- Calm and measured in expression\n")
	}

	b.WriteString("\nWhen responding as this personality, maintain their natural communication style, reference their interests, and match their level of enthusiasm and engagement.")

	return b.String()
}
