// Package renderer renders the cryptofolio entities and reports to markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

// PortfoliosMarkdown renders the list of portfolios with their cached total
// value.
func PortfoliosMarkdown(portfolios []*cryptofolio.Portfolio, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Portfolios\n\n")
	if len(portfolios) == 0 {
		fmt.Fprint(&b, "No portfolio.\n")
		return b.String()
	}

	tableHeader(&b, "llrrr", "Name", "ID", "Holdings", "Transactions", "Total Value")
	total := decimal.Zero
	for _, p := range portfolios {
		total = total.Add(p.TotalValue())
		tableRow(&b,
			cell(p.Name()),
			p.ID(),
			fmt.Sprint(len(p.Watchlist())),
			fmt.Sprint(len(p.Transactions())),
			Money(p.TotalValue(), currency),
		)
	}
	tableRow(&b, "**Total**", " ", " ", " ", "**"+Money(total, currency)+"**")
	return b.String()
}

// PortfolioMarkdown renders a portfolio and its watchlist.
func PortfolioMarkdown(p *cryptofolio.Portfolio, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name())
	fmt.Fprintf(&b, "Total Value: %s\n\n", Money(p.TotalValue(), currency))

	fmt.Fprint(&b, "## Watchlist\n\n")
	watchlist := p.Watchlist()
	if len(watchlist) == 0 {
		fmt.Fprint(&b, "No cryptocurrency held.\n")
		return b.String()
	}
	tableHeader(&b, "llrrr", "Symbol", "Name", "Price", "Count", "Balance")
	for _, c := range watchlist {
		tableRow(&b,
			c.Symbol(),
			cell(c.Name()),
			Price(c.Price(), currency),
			c.Count().String(),
			Money(c.Balance(), currency),
		)
	}
	return b.String()
}
