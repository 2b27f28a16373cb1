// Package coingecko provides crypto price lookups with persistent caching.
// A lookup is a two-step chain: resolve the symbol against the coins list,
// then fetch current price data for the resolved id.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/clientdata"
	"github.com/doppai/persona-api/internal/domain"
)

const requestTimeout = 10 * time.Second

// Client for the CoinGecko API.
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new CoinGecko client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(baseURL string, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: requestTimeout},
		log:       log.With().Str("client", "coingecko").Logger(),
		cacheRepo: cacheRepo,
	}
}

// coinListEntry is one entry of the /coins/list response.
type coinListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

const coinListCacheKey = "all"

// GetQuote resolves a ticker symbol and fetches its current market data.
// Returns nil, nil when the symbol does not resolve to a known coin; that is
// not an error, the caller simply drops the ticker from context.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*domain.CoinQuote, error) {
	cleanSymbol := strings.ToLower(strings.TrimPrefix(symbol, "$"))

	coin, err := c.resolveSymbol(ctx, cleanSymbol)
	if err != nil {
		return nil, err
	}
	if coin == nil {
		c.log.Debug().Str("symbol", symbol).Msg("Symbol not found in coins list")
		return nil, nil
	}

	quote, err := c.fetchQuote(ctx, coin)
	if err != nil {
		// API failed - try stale cached quote (stale data > no data)
		if stale, ok := c.getStaleQuote(coin.ID); ok {
			c.log.Warn().
				Err(err).
				Str("symbol", symbol).
				Msg("Price API failed, using stale cached quote")
			return stale, nil
		}
		return nil, err
	}

	quote.Symbol = strings.ToUpper(cleanSymbol)
	return quote, nil
}

// resolveSymbol finds the coin whose symbol or id matches. The coins list is
// large and nearly static, so it is cached for a day.
func (c *Client) resolveSymbol(ctx context.Context, cleanSymbol string) (*coinListEntry, error) {
	coins, err := c.coinsList(ctx)
	if err != nil {
		return nil, err
	}

	for i := range coins {
		if coins[i].Symbol == cleanSymbol || coins[i].ID == cleanSymbol {
			return &coins[i], nil
		}
	}
	return nil, nil
}

func (c *Client) coinsList(ctx context.Context) ([]coinListEntry, error) {
	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh("coingecko_coins", coinListCacheKey)
		if err == nil && data != nil {
			var coins []coinListEntry
			if err := json.Unmarshal(data, &coins); err == nil {
				c.log.Debug().Int("coins", len(coins)).Msg("Coins list cache hit")
				return coins, nil
			}
		}
	}

	body, err := c.get(ctx, c.baseURL+"/coins/list")
	if err != nil {
		// Fetch failed - a stale list still resolves symbols correctly
		if c.cacheRepo != nil {
			data, cacheErr := c.cacheRepo.Get("coingecko_coins", coinListCacheKey)
			if cacheErr == nil && data != nil {
				var coins []coinListEntry
				if jsonErr := json.Unmarshal(data, &coins); jsonErr == nil {
					c.log.Warn().Err(err).Msg("Coins list fetch failed, using stale cache")
					return coins, nil
				}
			}
		}
		return nil, err
	}

	var coins []coinListEntry
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("failed to parse coins list: %w", err)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("coingecko_coins", coinListCacheKey, coins, clientdata.TTLCoinList); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache coins list")
		}
	}

	c.log.Info().Int("coins", len(coins)).Msg("Fetched coins list")
	return coins, nil
}

func (c *Client) fetchQuote(ctx context.Context, coin *coinListEntry) (*domain.CoinQuote, error) {
	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh("coingecko_quotes", coin.ID)
		if err == nil && data != nil {
			var quote domain.CoinQuote
			if err := json.Unmarshal(data, &quote); err == nil {
				c.log.Debug().Str("coin", coin.ID).Msg("Quote cache hit")
				return &quote, nil
			}
		}
	}

	url := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true&include_market_cap=true&include_24hr_vol=true",
		c.baseURL, coin.ID,
	)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var priceData map[string]map[string]float64
	if err := json.Unmarshal(body, &priceData); err != nil {
		return nil, fmt.Errorf("failed to parse price response: %w", err)
	}

	data, exists := priceData[coin.ID]
	if !exists {
		return nil, fmt.Errorf("no price data for %s", coin.ID)
	}

	quote := &domain.CoinQuote{
		Symbol:    strings.ToUpper(coin.Symbol),
		Name:      coin.Name,
		PriceUSD:  data["usd"],
		Change24h: data["usd_24h_change"],
		MarketCap: data["usd_market_cap"],
		Volume24h: data["usd_24h_vol"],
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store("coingecko_quotes", coin.ID, quote, clientdata.TTLQuote); err != nil {
			c.log.Warn().Err(err).Str("coin", coin.ID).Msg("Failed to cache quote")
		}
		c.purgeExpired()
	}

	c.log.Info().
		Str("coin", coin.ID).
		Float64("price", quote.PriceUSD).
		Float64("change_24h", quote.Change24h).
		Msg("Fetched quote")
	return quote, nil
}

// purgeExpired sweeps expired rows out of the cache tables. Runs best-effort
// after a fresh quote is stored, so cleanup rides the request path instead of
// a timer. Rows that just went stale stay available to getStaleQuote until
// the next successful fetch.
func (c *Client) purgeExpired() {
	results, err := c.cacheRepo.DeleteAllExpired()
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to purge expired cache rows")
		return
	}
	for table, deleted := range results {
		if deleted > 0 {
			c.log.Debug().Str("table", table).Int64("deleted", deleted).Msg("Purged expired cache rows")
		}
	}
}

// getStaleQuote retrieves a cached quote even if expired.
func (c *Client) getStaleQuote(coinID string) (*domain.CoinQuote, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	data, err := c.cacheRepo.Get("coingecko_quotes", coinID)
	if err != nil || data == nil {
		return nil, false
	}

	var quote domain.CoinQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, false
	}
	return &quote, true
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
