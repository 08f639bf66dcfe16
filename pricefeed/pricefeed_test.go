package pricefeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

const quotesPayload = `{
  "status": {"error_code": 0, "error_message": null},
  "data": {
    "BTC": [{
      "id": 1, "name": "Bitcoin", "symbol": "BTC",
      "quote": {"USD": {
        "price": 30123.456789012345,
        "volume_24h": 1.5e10,
        "percent_change_24h": -1.25,
        "market_cap": 590000000000,
        "last_updated": "2024-03-09T12:00:00.000Z"
      }}
    }]
  }
}`

const listingPayload = `{
  "data": [
    {"name": "Bitcoin", "symbol": "BTC", "quote": {"USD": {"price": 30000, "volume_24h": 1, "percent_change_24h": 0.5, "market_cap": null, "last_updated": "2024-03-09T12:00:00Z"}}},
    {"name": "Ethereum", "symbol": "ETH", "quote": {"USD": {"price": 2000.5, "volume_24h": 2, "percent_change_24h": 1, "market_cap": 3, "last_updated": "2024-03-09T12:00:00Z"}}}
  ]
}`

const candlesPayload = `{
  "data": {"ETH": [{"symbol": "ETH", "quotes": [
    {"time_open": "2024-03-08T00:00:00Z", "time_close": "2024-03-08T23:59:59.999Z",
     "quote": {"USD": {"open": 1, "high": 4, "low": 0.5, "close": 2, "volume": 100}}},
    {"time_open": "2024-03-09T00:00:00Z", "time_close": "2024-03-09T23:59:59.999Z",
     "quote": {"USD": {"open": 2, "high": 3, "low": 1.5, "close": 2.5, "volume": 200}}}
  ]}]}
}`

// newFeed starts a server answering routes and returns a client on it.
func newFeed(t *testing.T, routes map[string]string) (*Client, *int) {
	t.Helper()
	hits := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.Header.Get("X-CMC_PRO_API_KEY") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status": {"error_code": 1002, "error_message": "API key missing."}}`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL, APIKey: "secret"}), hits
}

func TestClient_CryptocurrencyInfo(t *testing.T) {
	c, _ := newFeed(t, map[string]string{"/v2/cryptocurrency/quotes/latest": quotesPayload})

	info, err := c.CryptocurrencyInfo(context.Background(), "btc")
	if err != nil {
		t.Fatalf("CryptocurrencyInfo() error = %v", err)
	}
	want := Info{
		Symbol:            "BTC",
		Name:              "Bitcoin",
		Price:             decimal.RequireFromString("30123.456789012345"),
		MarketCap:         decimal.RequireFromString("590000000000"),
		Volume24h:         decimal.RequireFromString("15000000000"),
		PriceChangePct24h: decimal.RequireFromString("-1.25"),
		LastUpdated:       time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC),
	}
	if info.Symbol != want.Symbol || info.Name != want.Name {
		t.Errorf("CryptocurrencyInfo() = %s %s, want %s %s", info.Symbol, info.Name, want.Symbol, want.Name)
	}
	for name, got := range map[string][2]decimal.Decimal{
		"Price":             {info.Price, want.Price},
		"MarketCap":         {info.MarketCap, want.MarketCap},
		"Volume24h":         {info.Volume24h, want.Volume24h},
		"PriceChangePct24h": {info.PriceChangePct24h, want.PriceChangePct24h},
	} {
		if !got[0].Equal(got[1]) {
			t.Errorf("%s = %s, want %s", name, got[0], got[1])
		}
	}
	if !info.LastUpdated.Equal(want.LastUpdated) {
		t.Errorf("LastUpdated = %v, want %v", info.LastUpdated, want.LastUpdated)
	}

	coin, err := info.Cryptocurrency()
	if err != nil {
		t.Fatalf("Cryptocurrency() error = %v", err)
	}
	if coin.Symbol() != "BTC" || !coin.Count().Equal(decimal.NewFromInt(1)) {
		t.Errorf("Cryptocurrency() = %v count %s", coin, coin.Count())
	}
}

func TestClient_AllCryptocurrencies(t *testing.T) {
	c, _ := newFeed(t, map[string]string{"/v1/cryptocurrency/listings/latest": listingPayload})
	infos, err := c.AllCryptocurrencies(context.Background())
	if err != nil {
		t.Fatalf("AllCryptocurrencies() error = %v", err)
	}
	if len(infos) != 2 || infos[0].Symbol != "BTC" || infos[1].Symbol != "ETH" {
		t.Fatalf("AllCryptocurrencies() = %v", infos)
	}
	if !infos[0].MarketCap.IsZero() {
		t.Errorf("a null market cap = %s, want 0", infos[0].MarketCap)
	}
	if !infos[1].Price.Equal(decimal.RequireFromString("2000.5")) {
		t.Errorf("ETH price = %s, want 2000.5", infos[1].Price)
	}
}

func TestClient_Candles(t *testing.T) {
	c, _ := newFeed(t, map[string]string{"/v2/cryptocurrency/ohlcv/historical": candlesPayload})
	candles, err := c.Candles(context.Background(), "eth", "daily", 2)
	if err != nil {
		t.Fatalf("Candles() error = %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("Candles() returned %d candles, want 2", len(candles))
	}
	last := candles[1]
	if !last.High.Equal(decimal.NewFromInt(3)) || !last.Close.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("last candle = %+v", last)
	}
	if !last.TimeOpen.Equal(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("TimeOpen = %v", last.TimeOpen)
	}
}

func TestClient_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		routes map[string]string
		apiKey string
	}{
		{name: "unauthorized", routes: map[string]string{"/v2/cryptocurrency/quotes/latest": quotesPayload}, apiKey: "wrong"},
		{name: "not found", routes: map[string]string{}, apiKey: "secret"},
		{name: "malformed", routes: map[string]string{"/v2/cryptocurrency/quotes/latest": `{"data": `}, apiKey: "secret"},
		{name: "unknown symbol", routes: map[string]string{"/v2/cryptocurrency/quotes/latest": `{"data": {}}`}, apiKey: "secret"},
		{name: "missing price", routes: map[string]string{"/v2/cryptocurrency/quotes/latest": `{"data": {"BTC": [{"name": "Bitcoin", "symbol": "BTC", "quote": {}}]}}`}, apiKey: "secret"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newFeed(t, tc.routes)
			c.apiKey = tc.apiKey
			_, err := c.CryptocurrencyInfo(context.Background(), "BTC")
			var eerr *cryptofolio.ExternalServiceError
			if !errors.As(err, &eerr) {
				t.Fatalf("CryptocurrencyInfo() error = %v, want an *ExternalServiceError", err)
			}
			if eerr.Service != ServiceName {
				t.Errorf("Service = %q, want %q", eerr.Service, ServiceName)
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(Options{BaseURL: addr, Timeout: time.Second})
	_, err := c.AllCryptocurrencies(context.Background())
	if !errors.Is(err, cryptofolio.ErrExternalService) {
		t.Errorf("AllCryptocurrencies() error = %v, want an external service error", err)
	}
}

func TestClient_Cached(t *testing.T) {
	c, hits := newFeed(t, map[string]string{"/v2/cryptocurrency/quotes/latest": quotesPayload})
	for range 3 {
		if _, err := c.CryptocurrencyInfo(context.Background(), "BTC"); err != nil {
			t.Fatal(err)
		}
	}
	if *hits != 1 {
		t.Errorf("server was hit %d times, want 1", *hits)
	}
}
