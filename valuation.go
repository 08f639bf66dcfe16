package cryptofolio

import (
	"strings"

	"github.com/shopspring/decimal"
)

// This file contains the stateless valuation engine. Nothing here is cached:
// every figure is recomputed from entities and prices on demand.

// PriceSource returns the current price of a symbol, if known.
type PriceSource interface {
	Price(symbol string) (decimal.Decimal, bool)
}

// PriceMap is a PriceSource backed by a map indexed by canonical symbol.
type PriceMap map[string]decimal.Decimal

// Price implements PriceSource.
func (m PriceMap) Price(symbol string) (decimal.Decimal, bool) {
	p, ok := m[CanonicalSymbol(symbol)]
	return p, ok
}

// PricesOf returns the current prices carried by a list of cryptocurrencies.
func PricesOf(list []*Cryptocurrency) PriceMap {
	m := make(PriceMap, len(list))
	for _, c := range list {
		m[c.Symbol()] = c.Price()
	}
	return m
}

// Round2 rounds d to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// priceOf returns the known positive price of symbol, or zero.
func priceOf(prices PriceSource, symbol string) decimal.Decimal {
	if prices == nil {
		return decimal.Zero
	}
	p, ok := prices.Price(symbol)
	if !ok || !p.IsPositive() {
		return decimal.Zero
	}
	return p
}

// TotalValue returns the sum over holdings of current price × held count.
// A symbol unknown to prices is worth zero.
func TotalValue(holdings []*Cryptocurrency, prices PriceSource) decimal.Decimal {
	total := decimal.Zero
	for _, c := range holdings {
		total = total.Add(priceOf(prices, c.Symbol()).Mul(c.Count()))
	}
	return Round2(total)
}

// Balances returns the net quantity per symbol resulting from txs.
// Symbols whose net quantity is zero are still reported.
func Balances(txs []*Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		balances[tx.Symbol()] = balances[tx.Symbol()].Add(tx.Signed())
	}
	return balances
}

// PnL returns the profit and loss of tx given the current price of its
// cryptocurrency:
//
//	BUY                  price × amount − costs − fees
//	SELL                 profit − costs − fees
//	TRANSFER_WITHDRAWAL  −costs
//	TRANSFER_DEPOSIT     price × amount
//
// The result is rounded to 2 decimal places. An unknown value is neutral: a
// nil or invalid transaction, an invalid cryptocurrency or a price ≤ 0 all
// yield zero.
func PnL(tx *Transaction, price decimal.Decimal) decimal.Decimal {
	if tx == nil || tx.crypto == nil || !tx.crypto.IsValid() || !price.IsPositive() {
		return decimal.Zero
	}
	var pnl decimal.Decimal
	switch tx.kind {
	case Buy:
		pnl = price.Mul(tx.amount).Sub(tx.costs).Sub(tx.fees)
	case Sell:
		// realized: uses the recorded profit, not the current price.
		pnl = tx.profit.Sub(tx.costs).Sub(tx.fees)
	case TransferWithdrawal:
		pnl = tx.costs.Neg()
	case TransferDeposit:
		pnl = price.Mul(tx.amount)
	default:
		return decimal.Zero
	}
	return Round2(pnl)
}

// PnLAt is PnL using the price of the transaction's symbol in prices.
func PnLAt(tx *Transaction, prices PriceSource) decimal.Decimal {
	if tx == nil {
		return decimal.Zero
	}
	return PnL(tx, priceOf(prices, tx.Symbol()))
}

// TotalPnL sums PnLAt over txs.
func TotalPnL(txs []*Transaction, prices PriceSource) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(PnLAt(tx, prices))
	}
	return total
}

// BySymbol returns a predicate accepting transactions on symbol.
func BySymbol(symbol string) func(*Transaction) bool {
	symbol = CanonicalSymbol(symbol)
	return func(tx *Transaction) bool { return strings.EqualFold(tx.Symbol(), symbol) }
}
