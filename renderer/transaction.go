package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

// DateFormat is the layout of the dates in the reports, always in UTC.
const DateFormat = "2006-01-02 15:04"

// Transaction renders a transaction to a one line sentence.
func Transaction(tx *cryptofolio.Transaction, currency string) string {
	costs := Money(tx.Costs(), currency)
	switch tx.Type() {
	case cryptofolio.Buy:
		return fmt.Sprintf("Bought %s %s for %s", tx.Amount(), tx.Symbol(), costs)
	case cryptofolio.Sell:
		return fmt.Sprintf("Sold %s %s for %s", tx.Amount(), tx.Symbol(), Money(tx.Profit(), currency))
	case cryptofolio.TransferDeposit:
		return fmt.Sprintf("Deposited %s %s", tx.Amount(), tx.Symbol())
	case cryptofolio.TransferWithdrawal:
		return fmt.Sprintf("Withdrew %s %s", tx.Amount(), tx.Symbol())
	default:
		return string(tx.Type())
	}
}

// TransactionsMarkdown renders transactions with their profit and loss at the
// given prices, and the total.
func TransactionsMarkdown(txs []*cryptofolio.Transaction, prices cryptofolio.PriceSource, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprint(&b, "No transaction recorded.\n")
		return b.String()
	}

	tableHeader(&b, "lllrrrrrrl", "Date", "ID", "Type", "Symbol", "Amount", "Costs", "Fees", "Profit", "PnL", "Description")
	for _, tx := range txs {
		tableRow(&b,
			tx.CreatedAt().UTC().Format(DateFormat),
			tx.ID(),
			string(tx.Type()),
			tx.Symbol(),
			tx.Amount().String(),
			Money(tx.Costs(), currency),
			Money(tx.Fees(), currency),
			Money(tx.Profit(), currency),
			SignedMoney(cryptofolio.PnLAt(tx, prices), currency),
			cell(tx.Description()),
		)
	}
	tableRow(&b, "**Total**", " ", " ", " ", " ", " ", " ", " ",
		"**"+SignedMoney(cryptofolio.TotalPnL(txs, prices), currency)+"**", " ")
	return b.String()
}

// PnLMarkdown renders the profit and loss of a portfolio per cryptocurrency.
// The net amount is the quantity bought or deposited minus the quantity sold or
// withdrawn.
func PnLMarkdown(p *cryptofolio.Portfolio, txs []*cryptofolio.Transaction, prices cryptofolio.PriceSource, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Profit and Loss of %s\n\n", p.Name())

	balances := cryptofolio.Balances(txs)
	if len(balances) == 0 {
		fmt.Fprint(&b, "No transaction recorded.\n")
		return b.String()
	}

	symbols := make([]string, 0, len(balances))
	for symbol := range balances {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)

	tableHeader(&b, "lrrrr", "Symbol", "Net Amount", "Price", "Transactions", "PnL")
	total := decimal.Zero
	for _, symbol := range symbols {
		var own []*cryptofolio.Transaction
		for _, tx := range txs {
			if cryptofolio.BySymbol(symbol)(tx) {
				own = append(own, tx)
			}
		}
		pnl := cryptofolio.TotalPnL(own, prices)
		total = total.Add(pnl)

		price := "n/a"
		if v, ok := prices.Price(symbol); ok {
			price = Price(v, currency)
		}
		tableRow(&b, symbol, balances[symbol].String(), price, fmt.Sprint(len(own)), SignedMoney(pnl, currency))
	}
	tableRow(&b, "**Total**", " ", " ", fmt.Sprint(len(txs)), "**"+SignedMoney(total, currency)+"**")
	return b.String()
}
