package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/pricefeed"
)

// CryptocurrenciesMarkdown renders the reference cryptocurrencies and their
// current price.
func CryptocurrenciesMarkdown(list []*cryptofolio.Cryptocurrency, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Cryptocurrencies\n\n")
	if len(list) == 0 {
		fmt.Fprint(&b, "No cryptocurrency.\n")
		return b.String()
	}
	tableHeader(&b, "llr", "Symbol", "Name", "Price")
	for _, c := range list {
		tableRow(&b, c.Symbol(), cell(c.Name()), Price(c.Price(), currency))
	}
	return b.String()
}

// CandlesMarkdown renders the OHLC candles of a symbol, oldest first.
func CandlesMarkdown(symbol, interval string, candles []pricefeed.Candle, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", cryptofolio.CanonicalSymbol(symbol), interval)
	if len(candles) == 0 {
		fmt.Fprint(&b, "No candle.\n")
		return b.String()
	}
	tableHeader(&b, "lrrrrr", "Open Time", "Open", "High", "Low", "Close", "Volume")
	for _, c := range candles {
		tableRow(&b,
			c.TimeOpen.UTC().Format(DateFormat),
			Price(c.Open, currency),
			Price(c.High, currency),
			Price(c.Low, currency),
			Price(c.Close, currency),
			c.Volume.Round(2).String(),
		)
	}
	return b.String()
}
