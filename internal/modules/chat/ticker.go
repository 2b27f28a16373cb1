package chat

import (
	"regexp"
	"strings"
)

// tickerPattern matches a $-prefixed 2-10 letter token or one of the
// well-known currency names, case-insensitive.
var tickerPattern = regexp.MustCompile(`(?i)\$([A-Z]{2,10})\b|\b(bitcoin|btc|ethereum|eth|dogecoin|doge)\b`)

// canonicalSymbols maps currency names and aliases onto their ticker symbol.
var canonicalSymbols = map[string]string{
	"BITCOIN":  "BTC",
	"ETHEREUM": "ETH",
	"DOGECOIN": "DOGE",
}

// DetectTickers extracts distinct ticker symbols from free text. Symbols are
// uppercased, names canonicalized (so "Dogecoin" and "$DOGE" collapse), and
// first-seen order is preserved.
func DetectTickers(text string) []string {
	matches := tickerPattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool)
	var symbols []string
	for _, m := range matches {
		token := m[1]
		if token == "" {
			token = m[2]
		}
		symbol := strings.ToUpper(token)
		if canonical, ok := canonicalSymbols[symbol]; ok {
			symbol = canonical
		}
		if !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}
