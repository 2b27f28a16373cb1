package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTickers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "dollar prefix and currency name",
			text:     "What do you think about $BTC and Dogecoin?",
			expected: []string{"BTC", "DOGE"},
		},
		{
			name:     "names canonicalize to symbols",
			text:     "bitcoin vs Ethereum",
			expected: []string{"BTC", "ETH"},
		},
		{
			name:     "alias and symbol collapse to one entry",
			text:     "Dogecoin! I said $DOGE and doge again",
			expected: []string{"DOGE"},
		},
		{
			name:     "lowercase dollar ticker",
			text:     "thoughts on $sol today?",
			expected: []string{"SOL"},
		},
		{
			name:     "first seen order preserved",
			text:     "eth before $BTC before doge",
			expected: []string{"ETH", "BTC", "DOGE"},
		},
		{
			name:     "no tickers",
			text:     "tell me about your day",
			expected: nil,
		},
		{
			name:     "bare dollar sign ignored",
			text:     "I spent $5 on coffee",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectTickers(tt.text))
		})
	}
}
