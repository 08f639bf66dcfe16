// Package pricefeed reads current quotes and OHLC candles from a
// CoinMarketCap-style JSON API.
//
// Every failure (transport, non-2xx status, malformed payload) is reported as
// a *cryptofolio.ExternalServiceError. Nothing is retried.
package pricefeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

// ServiceName names the feed in errors.
const ServiceName = "price feed"

// DefaultBaseURL is the public endpoint of the feed.
const DefaultBaseURL = "https://pro-api.coinmarketcap.com"

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL       string
	APIKey        string
	QuoteCurrency string        // QuoteCurrency prices are expressed in, USD by default.
	CacheTTL      time.Duration // CacheTTL of responses, DefaultCacheTTL if zero, no cache if negative.
	Timeout       time.Duration // Timeout of a request, 10s if zero.
	Transport     http.RoundTripper
}

// Client reads the price feed.
type Client struct {
	base   string
	apiKey string
	quote  string
	http   *http.Client
}

// New returns a client configured by opts.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.QuoteCurrency == "" {
		opts.QuoteCurrency = "USD"
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		base:   strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey: opts.APIKey,
		quote:  strings.ToUpper(opts.QuoteCurrency),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: newMemoryCache(opts.Transport, opts.CacheTTL),
		},
	}
}

// QuoteCurrency returns the currency prices are expressed in.
func (c *Client) QuoteCurrency() string { return c.quote }

// Info is the market data of a cryptocurrency.
type Info struct {
	Symbol            string
	Name              string
	Price             decimal.Decimal
	MarketCap         decimal.Decimal
	Volume24h         decimal.Decimal
	PriceChangePct24h decimal.Decimal
	LastUpdated       time.Time
}

// Cryptocurrency returns the reference data for info, with a count of one.
func (info Info) Cryptocurrency() (*cryptofolio.Cryptocurrency, error) {
	return cryptofolio.NewCryptocurrency(info.Symbol, info.Name, info.Price, decimal.NewFromInt(1))
}

// Candle is an OHLC candle. Candles are passed through as the feed returns them.
type Candle struct {
	TimeOpen  time.Time
	TimeClose time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

func fail(format string, args ...any) error {
	return &cryptofolio.ExternalServiceError{Service: ServiceName, Err: fmt.Errorf(format, args...)}
}

// CryptocurrencyInfo returns the latest quote of symbol.
func (c *Client) CryptocurrencyInfo(ctx context.Context, symbol string) (Info, error) {
	symbol = cryptofolio.CanonicalSymbol(symbol)
	q := url.Values{"symbol": {symbol}, "convert": {c.quote}}
	payload, err := c.get(ctx, "/v2/cryptocurrency/quotes/latest", q)
	if err != nil {
		return Info{}, err
	}
	// v2 lists every coin sharing the symbol, the first one is the most relevant.
	coin, err := lookup(payload, fmt.Sprintf("$.data[%q][0]", symbol))
	if err != nil {
		return Info{}, fail("no quote for %s: %w", symbol, err)
	}
	info, err := c.info(coin)
	if err != nil {
		return Info{}, fail("invalid quote for %s: %w", symbol, err)
	}
	return info, nil
}

// AllCryptocurrencies returns the latest quotes of the listed cryptocurrencies,
// by decreasing market cap.
func (c *Client) AllCryptocurrencies(ctx context.Context) ([]Info, error) {
	q := url.Values{"start": {"1"}, "limit": {"100"}, "convert": {c.quote}}
	payload, err := c.get(ctx, "/v1/cryptocurrency/listings/latest", q)
	if err != nil {
		return nil, err
	}
	data, err := lookup(payload, "$.data")
	if err != nil {
		return nil, fail("invalid listing: %w", err)
	}
	list, ok := data.([]any)
	if !ok {
		return nil, fail("invalid listing: data is %T, not a list", data)
	}
	infos := make([]Info, 0, len(list))
	for i, coin := range list {
		info, err := c.info(coin)
		if err != nil {
			return nil, fail("invalid listing entry %d: %w", i, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Candles returns the last count OHLC candles of symbol. interval is passed
// through to the feed ("daily", "hourly", "weekly", ...).
func (c *Client) Candles(ctx context.Context, symbol, interval string, count int) ([]Candle, error) {
	symbol = cryptofolio.CanonicalSymbol(symbol)
	q := url.Values{
		"symbol":   {symbol},
		"interval": {interval},
		"count":    {strconv.Itoa(count)},
		"convert":  {c.quote},
	}
	payload, err := c.get(ctx, "/v2/cryptocurrency/ohlcv/historical", q)
	if err != nil {
		return nil, err
	}
	quotes, err := lookup(payload, fmt.Sprintf("$.data[%q][0].quotes", symbol))
	if err != nil {
		return nil, fail("no candles for %s: %w", symbol, err)
	}
	list, ok := quotes.([]any)
	if !ok {
		return nil, fail("invalid candles for %s: quotes is %T, not a list", symbol, quotes)
	}
	candles := make([]Candle, 0, len(list))
	for i, raw := range list {
		candle, err := c.candle(raw)
		if err != nil {
			return nil, fail("invalid candle %d for %s: %w", i, symbol, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func (c *Client) info(coin any) (Info, error) {
	var e extractor
	quote := fmt.Sprintf("$.quote[%q].", c.quote)
	info := Info{
		Symbol:            e.String(coin, "$.symbol"),
		Name:              e.String(coin, "$.name"),
		Price:             e.Decimal(coin, quote+"price"),
		MarketCap:         e.Decimal(coin, quote+"market_cap"),
		Volume24h:         e.Decimal(coin, quote+"volume_24h"),
		PriceChangePct24h: e.Decimal(coin, quote+"percent_change_24h"),
		LastUpdated:       e.Time(coin, quote+"last_updated"),
	}
	return info, e.err
}

func (c *Client) candle(q any) (Candle, error) {
	var e extractor
	quote := fmt.Sprintf("$.quote[%q].", c.quote)
	candle := Candle{
		TimeOpen:  e.Time(q, "$.time_open"),
		TimeClose: e.Time(q, "$.time_close"),
		Open:      e.Decimal(q, quote+"open"),
		High:      e.Decimal(q, quote+"high"),
		Low:       e.Decimal(q, quote+"low"),
		Close:     e.Decimal(q, quote+"close"),
		Volume:    e.Decimal(q, quote+"volume"),
	}
	return candle, e.err
}

// get performs a GET on the feed and decodes the JSON payload, keeping
// numbers exact.
func (c *Client) get(ctx context.Context, path string, query url.Values) (any, error) {
	addr := c.base + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fail("cannot create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &cryptofolio.ExternalServiceError{Service: ServiceName, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail("cannot read %s: %w", path, err)
	}

	var payload any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	decodeErr := dec.Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil {
			if msg, err := lookup(payload, "$.status.error_message"); err == nil && msg != nil {
				return nil, fail("cannot GET %s: %s: %v", path, resp.Status, msg)
			}
		}
		return nil, fail("cannot GET %s: %s", path, resp.Status)
	}
	if decodeErr != nil {
		return nil, fail("malformed payload from %s: %w", path, decodeErr)
	}
	return payload, nil
}
