// Package domain contains the core types shared across modules.
package domain

import "time"

// Engagement holds public engagement counters for a post.
type Engagement struct {
	Replies  int `json:"replies"`
	Reshares int `json:"reshares"`
	Likes    int `json:"likes"`
}

// Post is one short public message attributed to a handle.
// Posts are immutable after construction.
type Post struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"createdAt"`
	Engagement Engagement `json:"engagement"`
	SourceURL  string     `json:"sourceUrl"`
}

// Provenance tags where a profile or chat response came from.
type Provenance string

const (
	// ProvenanceGenerated means the live generation API produced the text.
	ProvenanceGenerated Provenance = "generated"
	// ProvenanceKeyword means a keyword-matched static fallback was used.
	ProvenanceKeyword Provenance = "fallback-keyword"
	// ProvenanceHeuristic means the templated heuristic fallback was used.
	ProvenanceHeuristic Provenance = "fallback-heuristic"
)

// Profile is a free-text personality description with provenance.
type Profile struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Provenance  Provenance `json:"provenance"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// TurnRole identifies the speaker of a conversation turn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn is one message in a chat session.
type ConversationTurn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CoinQuote is live market data for one detected ticker.
type CoinQuote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	PriceUSD  float64 `json:"priceUsd"`
	Change24h float64 `json:"change24h"`
	MarketCap float64 `json:"marketCap"`
	Volume24h float64 `json:"volume24h"`
}
