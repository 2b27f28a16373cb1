package chat

import "strings"

// contextLine pairs message keywords with a topic-specific canned response.
type contextLine struct {
	keywords []string
	response string
}

// persona is one entry of the canned-response dispatch table. Entries are
// evaluated in order against the profile text, first match wins.
type persona struct {
	name         string
	keywords     []string // matched against the profile text
	responses    []string // uniform random pick when no context line matches
	contextLines []contextLine
}

var personas = []persona{
	{
		name:     "space-visionary",
		keywords: []string{"mars", "rocket"},
		responses: []string{
			"Mars is the future! 🚀 What we're doing here on Earth is just the beginning.",
			"Interesting point! Reminds me of when we were solving similar problems at SpaceX. Sometimes the best solution is the simplest one.",
			"The future is going to be wild! AI, rockets, sustainable energy - we're living in the most exciting time in human history.",
			"Dogecoin to the moon! But seriously, what you're saying makes a lot of sense. Innovation comes from thinking differently.",
			"That's exactly what I mean! We need to think bigger, bolder. The impossible is just engineering that hasn't been figured out yet.",
		},
		contextLines: []contextLine{
			{
				keywords: []string{"space", "mars"},
				response: "Mars is calling! 🚀 The red planet is humanity's backup drive. What aspects of space exploration excite you most?",
			},
			{
				keywords: []string{"ai", "artificial intelligence"},
				response: "AI is going to change everything! We just need to make sure it's aligned with human values. What's your take on AI safety?",
			},
			{
				keywords: []string{"crypto", "bitcoin"},
				response: "Dogecoin is the people's crypto! 🐕 But seriously, blockchain technology has incredible potential.",
			},
		},
	},
	{
		name:     "tech-executive",
		keywords: []string{"google", "responsible ai"},
		responses: []string{
			"That's a fascinating perspective! At Google, we're always thinking about how technology can serve everyone, especially those who need it most.",
			"I'm excited about the potential here! When we develop AI responsibly, we can create solutions that truly benefit humanity.",
			"This is exactly the kind of innovation that can democratize access to information and opportunities globally.",
			"Your question touches on something we're deeply committed to - ensuring technology is helpful, harmless, and honest.",
			"I appreciate your thoughtful approach! Building for the next billion users means considering diverse perspectives like yours.",
		},
		contextLines: []contextLine{
			{
				keywords: []string{"ai", "technology"},
				response: "That's exactly what we're working on at Google! Responsible AI development is crucial for creating technology that truly serves everyone.",
			},
			{
				keywords: []string{"future", "innovation"},
				response: "I'm excited about the possibilities! When we build technology thoughtfully, we can create a more inclusive and accessible future for all.",
			},
		},
	},
	{
		name:     "motivational-icon",
		keywords: []string{"dreams", "intuition"},
		responses: []string{
			"Oh, that just fills my heart! ✨ You know, what you're sharing reminds me that we all have such wisdom within us.",
			"I love that question! It tells me you're really thinking about what matters most. What does your intuition tell you?",
			"Honey, that is so beautiful! Every day is a chance to grow into who we're meant to be. How are you honoring that journey?",
			"You know what I always say - when you know better, you do better! And what you're sharing shows such beautiful growth.",
			"That speaks to my soul! There's such power in following your dreams and trusting the process. What dreams are calling to you?",
		},
		contextLines: []contextLine{
			{
				keywords: []string{"dream", "goal"},
				response: "Your dreams are calling to you! ✨ What steps are you taking to honor that beautiful vision you have?",
			},
			{
				keywords: []string{"growth", "learn"},
				response: "Oh, I love that you're growing! 🌟 Every experience is teaching us something. What lesson has been most meaningful to you lately?",
			},
		},
	},
}

// genericResponses serve when no persona keyword matches the profile.
var genericResponses = []string{
	"That's such an interesting question! I love discussing topics like this.",
	"You know, that really resonates with me. It's exactly the kind of thinking that leads to breakthroughs.",
	"I appreciate you bringing this up! It's conversations like these that really matter.",
	"That's a great perspective! It reminds me of some of the challenges and opportunities I've been thinking about.",
	"Fascinating point! I think there's so much potential in what you're describing.",
}

// matchPersona returns the first persona whose keywords appear in the profile
// text, or nil for the generic list.
func matchPersona(profileText string) *persona {
	text := strings.ToLower(profileText)
	for i := range personas {
		for _, kw := range personas[i].keywords {
			if strings.Contains(text, kw) {
				return &personas[i]
			}
		}
	}
	return nil
}

// RandSource supplies randomness for canned-response selection. Injected so
// tests can force deterministic picks.
type RandSource interface {
	Intn(n int) int
}

// fallbackResponse selects a canned response: persona context line if a
// message keyword matches, else a random line from the persona list, else
// from the generic list.
func fallbackResponse(message, profileText string, rng RandSource) string {
	p := matchPersona(profileText)

	responses := genericResponses
	if p != nil {
		responses = p.responses

		msgLower := strings.ToLower(message)
		for _, cl := range p.contextLines {
			for _, kw := range cl.keywords {
				if strings.Contains(msgLower, kw) {
					return cl.response
				}
			}
		}
	}

	return responses[rng.Intn(len(responses))]
}
