package cryptofolio

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseTransactionType(t *testing.T) {
	testCases := []struct {
		in      string
		want    TransactionType
		wantErr bool
	}{
		{in: "BUY", want: Buy},
		{in: "sell", want: Sell},
		{in: "transfer-withdrawal", want: TransferWithdrawal},
		{in: " Transfer_Deposit ", want: TransferDeposit},
		{in: "dividend", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTransactionType(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseTransactionType(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseTransactionType(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewTransaction(t *testing.T) {
	btc := coin(t, "BTC", "30000", "1")
	valid := func() TransactionParams {
		return TransactionParams{
			PortfolioID:    portfolioID,
			Cryptocurrency: btc,
			Type:           Buy,
			Amount:         D("1"),
			Costs:          D("30000"),
			Fees:           D("10"),
		}
	}

	testCases := []struct {
		name     string
		edit     func(*TransactionParams)
		wantErrs int
	}{
		{name: "valid", edit: func(*TransactionParams) {}},
		{name: "zero amount", edit: func(p *TransactionParams) { p.Amount = decimal.Zero }, wantErrs: 1},
		{name: "negative costs and fees", edit: func(p *TransactionParams) { p.Costs, p.Fees = D("-1"), D("-1") }, wantErrs: 2},
		{name: "missing portfolio", edit: func(p *TransactionParams) { p.PortfolioID = "" }, wantErrs: 1},
		{name: "missing cryptocurrency", edit: func(p *TransactionParams) { p.Cryptocurrency = nil }, wantErrs: 1},
		{name: "unknown type", edit: func(p *TransactionParams) { p.Type = "STAKE" }, wantErrs: 1},
		{name: "future", edit: func(p *TransactionParams) { p.CreatedAt = time.Now().Add(time.Hour) }, wantErrs: 1},
		{name: "long description", edit: func(p *TransactionParams) { p.Description = strings.Repeat("x", 257) }, wantErrs: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid()
			tc.edit(&p)
			got, err := NewTransaction(p)
			if tc.wantErrs == 0 {
				if err != nil {
					t.Fatalf("NewTransaction() unexpected error: %v", err)
				}
				if got.ID() == "" || got.CreatedAt().IsZero() {
					t.Errorf("NewTransaction() did not default the id and date: %q %v", got.ID(), got.CreatedAt())
				}
				if got.CreatedAt().Location() != time.UTC {
					t.Errorf("CreatedAt() location = %v, want UTC", got.CreatedAt().Location())
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("NewTransaction() error = %v, want a *ValidationError", err)
			}
			if len(verr.Messages) != tc.wantErrs {
				t.Errorf("NewTransaction() got violations %q, want %d", verr.Messages, tc.wantErrs)
			}
		})
	}
}

func TestTransaction_Snapshot(t *testing.T) {
	btc := coin(t, "BTC", "30000", "1")
	x := tx(t, btc, Buy, "1", "30000", "0", "0")
	if err := btc.SetPrice(D("1")); err != nil {
		t.Fatal(err)
	}
	if !x.Cryptocurrency().Price().Equal(D("30000")) {
		t.Errorf("transaction follows changes of the coin it was created from")
	}
}

func TestTransaction_Mutators(t *testing.T) {
	x := tx(t, coin(t, "BTC", "100", "1"), Sell, "1", "50", "5", "100")
	if err := x.SetFees(D("-1")); !errors.Is(err, ErrValidation) {
		t.Errorf("SetFees(-1) error = %v, want a validation error", err)
	}
	if !x.Fees().Equal(D("5")) {
		t.Errorf("Fees() = %s after a failed update", x.Fees())
	}
	if err := x.SetFees(D("7")); err != nil {
		t.Fatal(err)
	}
	x.SetProfit(D("120"))
	if !x.Profit().Equal(D("120")) || !x.Fees().Equal(D("7")) {
		t.Errorf("Profit(), Fees() = %s, %s, want 120, 7", x.Profit(), x.Fees())
	}
	if want := D("-1"); !x.Signed().Equal(want) {
		t.Errorf("Signed() = %s, want %s", x.Signed(), want)
	}
}
