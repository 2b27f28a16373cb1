package chat

import (
	"fmt"
	"strings"

	"github.com/doppai/persona-api/internal/domain"
)

// formatPriceContext renders successful quote lookups into the block that is
// appended to the generation prompt. Returns "" when there are no quotes.
func formatPriceContext(quotes []domain.CoinQuote) string {
	if len(quotes) == 0 {
		return ""
	}

	lines := make([]string, 0, len(quotes))
	for _, q := range quotes {
		indicator := "➡️"
		if q.Change24h > 0 {
			indicator = "📈"
		} else if q.Change24h < 0 {
			indicator = "📉"
		}

		changeText := fmt.Sprintf("%.2f%%", q.Change24h)
		if q.Change24h > 0 {
			changeText = "+" + changeText
		}

		// Sub-dollar coins need more precision to be meaningful
		priceText := fmt.Sprintf("%.2f", q.PriceUSD)
		if q.PriceUSD < 1 {
			priceText = fmt.Sprintf("%.6f", q.PriceUSD)
		}

		lines = append(lines, fmt.Sprintf("%s: $%s %s %s (24h)", q.Symbol, priceText, indicator, changeText))
	}

	return "\n\nCURRENT CRYPTO PRICES:\n" + strings.Join(lines, "\n") + "\n"
}
