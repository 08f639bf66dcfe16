package cryptofolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create decimals from const.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// coin returns a valid cryptocurrency or fails the test.
func coin(t *testing.T, symbol string, price, count string) *Cryptocurrency {
	t.Helper()
	c, err := NewCryptocurrency(symbol, symbol+" coin", D(price), D(count))
	if err != nil {
		t.Fatalf("NewCryptocurrency(%q) error = %v", symbol, err)
	}
	return c
}

const (
	portfolioID = "0b7c2c5e-3f4a-4a55-9f38-8c1b8f3d2a10"
	ownerID     = "5d2f9a8e-6b1c-4e0f-8a7d-2c3b4e5f6a70"
)

// tx returns a valid transaction created an hour ago, or fails the test.
func tx(t *testing.T, c *Cryptocurrency, kind TransactionType, amount, costs, fees, profit string) *Transaction {
	t.Helper()
	x, err := NewTransaction(TransactionParams{
		PortfolioID:    portfolioID,
		Cryptocurrency: c,
		Type:           kind,
		Amount:         D(amount),
		Costs:          D(costs),
		Fees:           D(fees),
		Profit:         D(profit),
		CreatedAt:      time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}
	return x
}
