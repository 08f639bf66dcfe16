package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
)

func coin(t *testing.T, symbol, name, price string) *cryptofolio.Cryptocurrency {
	t.Helper()
	c, err := cryptofolio.NewCryptocurrency(symbol, name, decimal.RequireFromString(price), decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("NewCryptocurrency() error = %v", err)
	}
	return c
}

func openCoins(t *testing.T, path string) *JSON[string, *cryptofolio.Cryptocurrency] {
	t.Helper()
	r, err := Open[string, *cryptofolio.Cryptocurrency](path)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", path, err)
	}
	return r
}

func TestOpen_Bootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cryptocurrencies.json")
	r := openCoins(t, path)

	if got := r.FindAll(); len(got) != 0 {
		t.Errorf("FindAll() = %v, want empty", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("bootstrap did not create the file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("bootstrapped file = %q, want []", got)
	}
}

func TestOpen_Corrupted(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		wantErr   bool
		wantCount int
	}{
		{name: "blank", content: "  \n"},
		{name: "syntax error", content: `[{"symbol":`},
		{name: "valid", content: `[{"symbol":"BTC","name":"Bitcoin","currentPrice":30000,"count":1}]`, wantCount: 1},
		{name: "invalid entity", content: `[{"symbol":"B","name":"Bitcoin","currentPrice":30000,"count":1}]`, wantErr: true},
		{name: "null entity", content: `[null]`, wantErr: true},
		{name: "object", content: `{"symbol":"BTC"}`},
		{name: "string", content: `"hello"`},
		{name: "number", content: `42`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cryptocurrencies.json")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			r, err := Open[string, *cryptofolio.Cryptocurrency](path)
			if tc.wantErr {
				var serr *cryptofolio.StorageError
				if !errors.As(err, &serr) {
					t.Fatalf("Open() error = %v, want a *StorageError", err)
				}
				if serr.File != path {
					t.Errorf("StorageError.File = %q, want %q", serr.File, path)
				}
				// The file must not be overwritten.
				if data, _ := os.ReadFile(path); string(data) != tc.content {
					t.Errorf("file content changed to %q", data)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			if got := len(r.FindAll()); got != tc.wantCount {
				t.Errorf("len(FindAll()) = %d, want %d", got, tc.wantCount)
			}
		})
	}
}

func TestJSON_IdentityReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cryptocurrencies.json")
	r := openCoins(t, path)

	for _, c := range []*cryptofolio.Cryptocurrency{
		coin(t, "BTC", "Bitcoin", "30000"),
		coin(t, "ETH", "Ethereum", "2000"),
		coin(t, "btc", "Bitcoin Core", "31000"),
	} {
		if _, err := r.Add(c); err != nil {
			t.Fatalf("Add(%v) error = %v", c, err)
		}
	}

	all := r.FindAll()
	if len(all) != 2 {
		t.Fatalf("FindAll() = %v, want 2 entities", all)
	}
	if all[0].Symbol() != "BTC" || all[1].Symbol() != "ETH" {
		t.Errorf("FindAll() order = %v, %v, want BTC, ETH", all[0], all[1])
	}
	btc, ok := r.FindByID("BTC")
	if !ok || btc.Name() != "Bitcoin Core" || !btc.Price().Equal(decimal.NewFromInt(31000)) {
		t.Errorf("FindByID(BTC) = %v, %v, want the replacing entity", btc, ok)
	}

	// A fresh load sees the same collection.
	reloaded := openCoins(t, path).FindAll()
	if len(reloaded) != 2 || reloaded[0].Name() != "Bitcoin Core" || reloaded[1].Symbol() != "ETH" {
		t.Errorf("reloaded FindAll() = %v", reloaded)
	}
}

func TestJSON_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cryptocurrencies.json")
	r := openCoins(t, path)
	btc := coin(t, "BTC", "Bitcoin", "30000")
	if _, err := r.Add(btc); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Add(coin(t, "ETH", "Ethereum", "2000")); err != nil {
		t.Fatal(err)
	}

	removed, err := r.Remove(btc)
	if err != nil || !removed {
		t.Fatalf("Remove(BTC) = %v, %v, want true, nil", removed, err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	removed, err = r.Remove(btc)
	if err != nil || removed {
		t.Errorf("Remove(BTC) twice = %v, %v, want false, nil", removed, err)
	}
	after, _ := os.ReadFile(path)
	info2, _ := os.Stat(path)
	if string(before) != string(after) || !info.ModTime().Equal(info2.ModTime()) {
		t.Errorf("removing an absent entity rewrote the file")
	}

	if _, ok := r.FindByID("BTC"); ok {
		t.Errorf("FindByID(BTC) found a removed entity")
	}
	if eth, ok := r.FindByID("ETH"); !ok || eth.Symbol() != "ETH" {
		t.Errorf("FindByID(ETH) = %v, %v after removing BTC", eth, ok)
	}
}

func TestJSON_FindAllFunc(t *testing.T) {
	r := openCoins(t, filepath.Join(t.TempDir(), "cryptocurrencies.json"))
	for _, c := range []*cryptofolio.Cryptocurrency{
		coin(t, "BTC", "Bitcoin", "30000"),
		coin(t, "DOGE", "Dogecoin", "0.1"),
		coin(t, "ETH", "Ethereum", "2000"),
	} {
		if _, err := r.Add(c); err != nil {
			t.Fatal(err)
		}
	}
	cheap := r.FindAllFunc(func(c *cryptofolio.Cryptocurrency) bool {
		return c.Price().LessThan(decimal.NewFromInt(5000))
	})
	if len(cheap) != 2 || cheap[0].Symbol() != "DOGE" || cheap[1].Symbol() != "ETH" {
		t.Errorf("FindAllFunc() = %v, want DOGE, ETH", cheap)
	}

	snapshot := r.FindAll()
	snapshot[0] = nil
	if first := r.FindAll()[0]; first == nil {
		t.Errorf("FindAll() exposes the internal slice")
	}
}

func TestJSON_StorageError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cryptocurrencies.json")
	r := openCoins(t, path)

	// Turning the file into a directory makes the rename fail.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := r.Add(coin(t, "BTC", "Bitcoin", "30000"))
	if !errors.Is(err, cryptofolio.ErrStorage) {
		t.Fatalf("Add() error = %v, want a storage error", err)
	}
	if got := r.FindAll(); len(got) != 0 {
		t.Errorf("a failed Add() changed the collection: %v", got)
	}

	if _, err := Open[string, *cryptofolio.Cryptocurrency](path); !errors.Is(err, cryptofolio.ErrStorage) {
		t.Errorf("Open(directory) error = %v, want a storage error", err)
	}
}
