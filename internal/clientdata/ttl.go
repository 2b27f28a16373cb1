package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// TTLCoinList - the CoinGecko coins list is large and nearly static.
	TTLCoinList = 24 * time.Hour

	// TTLQuote - current prices change constantly; keep the window short so
	// the chat context stays believable.
	TTLQuote = 10 * time.Minute
)
