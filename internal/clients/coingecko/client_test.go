package coingecko

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppai/persona-api/internal/clientdata"
	_ "modernc.org/sqlite"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func setupCacheRepo(t *testing.T) *clientdata.Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(clientdata.Schema)
	require.NoError(t, err)

	return clientdata.NewRepository(db)
}

const coinsListBody = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},
	{"id":"ethereum","symbol":"eth","name":"Ethereum"},
	{"id":"dogecoin","symbol":"doge","name":"Dogecoin"}
]`

func newQuoteServer(t *testing.T, listCalls, priceCalls *atomic.Int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/list":
			listCalls.Add(1)
			fmt.Fprint(w, coinsListBody)
		case "/simple/price":
			priceCalls.Add(1)
			assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
			id := r.URL.Query().Get("ids")
			fmt.Fprintf(w, `{"%s":{"usd":97000.5,"usd_24h_change":2.34,"usd_market_cap":1900000000000,"usd_24h_vol":45000000000}}`, id)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
}

func TestGetQuote(t *testing.T) {
	var listCalls, priceCalls atomic.Int64
	server := newQuoteServer(t, &listCalls, &priceCalls)
	defer server.Close()

	client := NewClient(server.URL, setupCacheRepo(t), testLogger())

	quote, err := client.GetQuote(context.Background(), "$BTC")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "BTC", quote.Symbol)
	assert.Equal(t, "Bitcoin", quote.Name)
	assert.Equal(t, 97000.5, quote.PriceUSD)
	assert.Equal(t, 2.34, quote.Change24h)
}

func TestGetQuoteUnknownSymbolReturnsNil(t *testing.T) {
	var listCalls, priceCalls atomic.Int64
	server := newQuoteServer(t, &listCalls, &priceCalls)
	defer server.Close()

	client := NewClient(server.URL, setupCacheRepo(t), testLogger())

	quote, err := client.GetQuote(context.Background(), "NOTACOIN")
	require.NoError(t, err)
	assert.Nil(t, quote)
	assert.Equal(t, int64(0), priceCalls.Load())
}

func TestGetQuoteUsesCache(t *testing.T) {
	var listCalls, priceCalls atomic.Int64
	server := newQuoteServer(t, &listCalls, &priceCalls)
	defer server.Close()

	client := NewClient(server.URL, setupCacheRepo(t), testLogger())

	_, err := client.GetQuote(context.Background(), "BTC")
	require.NoError(t, err)
	_, err = client.GetQuote(context.Background(), "BTC")
	require.NoError(t, err)

	// Second lookup is served entirely from the cache
	assert.Equal(t, int64(1), listCalls.Load())
	assert.Equal(t, int64(1), priceCalls.Load())
}

func TestGetQuoteResolvesByCoinID(t *testing.T) {
	var listCalls, priceCalls atomic.Int64
	server := newQuoteServer(t, &listCalls, &priceCalls)
	defer server.Close()

	client := NewClient(server.URL, setupCacheRepo(t), testLogger())

	quote, err := client.GetQuote(context.Background(), "dogecoin")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "Dogecoin", quote.Name)
}

func TestGetQuoteStaleFallbackOnAPIFailure(t *testing.T) {
	repo := setupCacheRepo(t)

	// Seed an expired quote and a fresh coins list, then have the price
	// endpoint fail.
	require.NoError(t, repo.Store("coingecko_quotes", "bitcoin",
		map[string]interface{}{"symbol": "BTC", "name": "Bitcoin", "priceUsd": 90000.0},
		-clientdata.TTLQuote))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/list":
			fmt.Fprint(w, coinsListBody)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, repo, testLogger())

	quote, err := client.GetQuote(context.Background(), "BTC")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, 90000.0, quote.PriceUSD)
}

func TestGetQuotePurgesExpiredRows(t *testing.T) {
	repo := setupCacheRepo(t)

	// Leftover expired rows from earlier lookups
	require.NoError(t, repo.Store("coingecko_coins", "old-list", "x", -time.Minute))
	require.NoError(t, repo.Store("coingecko_quotes", "ethereum", "y", -time.Minute))

	var listCalls, priceCalls atomic.Int64
	server := newQuoteServer(t, &listCalls, &priceCalls)
	defer server.Close()

	client := NewClient(server.URL, repo, testLogger())

	_, err := client.GetQuote(context.Background(), "BTC")
	require.NoError(t, err)

	// The successful fetch swept the expired rows on its way out
	data, err := repo.Get("coingecko_coins", "old-list")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = repo.Get("coingecko_quotes", "ethereum")
	require.NoError(t, err)
	assert.Nil(t, data)

	// The fresh rows survive
	data, err = repo.GetIfFresh("coingecko_quotes", "bitcoin")
	require.NoError(t, err)
	assert.NotNil(t, data)
}

func TestGetQuoteWithoutCacheRepo(t *testing.T) {
	var listCalls, priceCalls atomic.Int64
	server := newQuoteServer(t, &listCalls, &priceCalls)
	defer server.Close()

	client := NewClient(server.URL, nil, testLogger())

	quote, err := client.GetQuote(context.Background(), "eth")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "ETH", quote.Symbol)
}
