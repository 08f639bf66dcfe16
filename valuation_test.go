package cryptofolio

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPnL(t *testing.T) {
	btc := coin(t, "BTC", "100", "1")
	testCases := []struct {
		kind  TransactionType
		price string
		want  string
	}{
		{kind: Buy, price: "100", want: "85.00"},
		{kind: Sell, price: "100", want: "35.00"},
		{kind: TransferWithdrawal, price: "100", want: "-10.00"},
		{kind: TransferDeposit, price: "100", want: "100.00"},
		// SELL is realized: the current price does not matter.
		{kind: Sell, price: "5000", want: "35.00"},
		{kind: Buy, price: "0", want: "0"},
		{kind: TransferDeposit, price: "-3", want: "0"},
		{kind: Buy, price: "100.004", want: "85.00"},
		{kind: Buy, price: "100.005", want: "85.01"},
	}
	for _, tc := range testCases {
		t.Run(string(tc.kind)+"@"+tc.price, func(t *testing.T) {
			x := tx(t, btc, tc.kind, "1", "10", "5", "50")
			got := PnL(x, D(tc.price))
			if !got.Equal(D(tc.want)) {
				t.Errorf("PnL() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestPnL_Neutral(t *testing.T) {
	if got := PnL(nil, D("100")); !got.IsZero() {
		t.Errorf("PnL(nil) = %s, want 0", got)
	}
	x := tx(t, coin(t, "BTC", "100", "1"), Buy, "1", "10", "5", "0")
	x.crypto = &Cryptocurrency{symbol: "BTC"}
	if got := PnL(x, D("100")); !got.IsZero() {
		t.Errorf("PnL() with an invalid cryptocurrency = %s, want 0", got)
	}
}

func TestTotalPnL(t *testing.T) {
	btc := coin(t, "BTC", "100", "1")
	eth := coin(t, "ETH", "10", "1")
	txs := []*Transaction{
		tx(t, btc, Buy, "1", "10", "5", "0"),                // 100 - 15 = 85
		tx(t, eth, Buy, "2", "10", "0", "0"),                // unknown price: 0
		tx(t, btc, TransferWithdrawal, "1", "10", "0", "0"), // -10
	}
	got := TotalPnL(txs, PriceMap{"BTC": D("100")})
	if want := D("75"); !got.Equal(want) {
		t.Errorf("TotalPnL() = %s, want %s", got, want)
	}
}

func TestBalances(t *testing.T) {
	btc := coin(t, "BTC", "100", "1")
	eth := coin(t, "ETH", "10", "1")
	txs := []*Transaction{
		tx(t, btc, Buy, "2", "0", "0", "0"),
		tx(t, btc, Sell, "0.5", "0", "0", "0"),
		tx(t, eth, TransferDeposit, "3", "0", "0", "0"),
		tx(t, eth, TransferWithdrawal, "3", "0", "0", "0"),
		tx(t, btc, TransferDeposit, "0.25", "0", "0", "0"),
	}
	got := Balances(txs)
	want := map[string]decimal.Decimal{"BTC": D("1.75"), "ETH": decimal.Zero}
	if len(got) != len(want) {
		t.Fatalf("Balances() = %v, want %v", got, want)
	}
	for symbol, w := range want {
		if !got[symbol].Equal(w) {
			t.Errorf("Balances()[%s] = %s, want %s", symbol, got[symbol], w)
		}
	}

	if got := Balances(txs[:0]); len(got) != 0 {
		t.Errorf("Balances(empty) = %v", got)
	}

	onlyBTC := 0
	for _, x := range txs {
		if BySymbol("btc")(x) {
			onlyBTC++
		}
	}
	if onlyBTC != 3 {
		t.Errorf("BySymbol(btc) accepted %d transactions, want 3", onlyBTC)
	}
}

func TestTotalValue(t *testing.T) {
	holdings := []*Cryptocurrency{
		coin(t, "BTC", "30000", "0.1"),
		coin(t, "ETH", "1500", "2"),
	}
	testCases := []struct {
		name   string
		prices PriceSource
		want   string
	}{
		{name: "own prices", prices: PricesOf(holdings), want: "6000.00"},
		{name: "unknown symbol", prices: PriceMap{"BTC": D("30000")}, want: "3000.00"},
		{name: "no prices", prices: nil, want: "0"},
		{name: "rounded", prices: PriceMap{"BTC": D("0.033"), "ETH": D("0.001")}, want: "0.01"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TotalValue(holdings, tc.prices)
			if !got.Equal(D(tc.want)) {
				t.Errorf("TotalValue() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestBalanceMonotonicity(t *testing.T) {
	values := []string{"-2", "-0.001", "0", "0.004", "0.005", "1", "12345.6789"}
	for _, p := range values {
		for _, n := range values {
			c := &Cryptocurrency{symbol: "BTC", name: "Bitcoin", price: D(p), count: D(n)}
			c.rebalance()
			want := Round2(decimal.Max(D(p), decimal.Zero).Mul(decimal.Max(D(n), decimal.Zero)))
			if !c.Balance().Equal(want) {
				t.Errorf("balance(%s, %s) = %s, want %s", p, n, c.Balance(), want)
			}
			if c.Balance().IsNegative() {
				t.Errorf("balance(%s, %s) = %s is negative", p, n, c.Balance())
			}
		}
	}
}
