package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

func TestNewFactory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	f, err := NewFactory(dir)
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	for _, name := range []string{UsersFile, PortfoliosFile, TransactionsFile, CryptocurrenciesFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("NewFactory() did not create %s: %v", name, err)
		}
	}

	u, err := cryptofolio.NewUser("alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	p, err := cryptofolio.NewPortfolio(u.ID(), "main")
	if err != nil {
		t.Fatal(err)
	}
	if err := u.AddPortfolio(p.ID()); err != nil {
		t.Fatal(err)
	}
	btc, err := cryptofolio.NewCryptocurrency("BTC", "Bitcoin", decimal.NewFromInt(30000), decimal.NewFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	x, err := cryptofolio.NewTransaction(cryptofolio.TransactionParams{
		PortfolioID:    p.ID(),
		Cryptocurrency: btc,
		Type:           cryptofolio.Buy,
		Amount:         decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.Users.Add(u); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Portfolios.Add(p); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Transactions.Add(x); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Cryptocurrencies.Add(btc); err != nil {
		t.Fatal(err)
	}
	if err := f.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	reopened, err := NewFactory(dir)
	if err != nil {
		t.Fatalf("NewFactory() on existing data error = %v", err)
	}
	if got, ok := reopened.Users.FindByID(u.ID()); !ok || !got.HasPortfolio(p.ID()) {
		t.Errorf("reloaded user = %v, %v", got, ok)
	}
	if got, ok := reopened.Portfolios.FindByID(p.ID()); !ok || got.OwnerID() != u.ID() {
		t.Errorf("reloaded portfolio = %v, %v", got, ok)
	}
	if got, ok := reopened.Transactions.FindByID(x.ID()); !ok || got.Symbol() != "BTC" {
		t.Errorf("reloaded transaction = %v, %v", got, ok)
	}
	if _, ok := reopened.Cryptocurrencies.FindByID("BTC"); !ok {
		t.Errorf("reloaded cryptocurrencies miss BTC")
	}
}

func TestNewFactory_NotAnArray(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, UsersFile), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := NewFactory(dir)
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	if got := f.Users.FindAll(); len(got) != 0 {
		t.Errorf("users = %v, want none", got)
	}
}
