package repository

import (
	"path/filepath"

	"github.com/etnz/cryptofolio"
	"golang.org/x/sync/errgroup"
)

// File names of the collections, relative to the data directory.
const (
	UsersFile            = "users.json"
	PortfoliosFile       = "portfolios.json"
	TransactionsFile     = "transactions.json"
	CryptocurrenciesFile = "cryptocurrencies.json"
)

// Factory holds one repository per entity kind.
//
// It is built once at startup and handed to the services; there is no global
// instance.
type Factory struct {
	Users            Repository[string, *cryptofolio.User]
	Portfolios       Repository[string, *cryptofolio.Portfolio]
	Transactions     Repository[string, *cryptofolio.Transaction]
	Cryptocurrencies Repository[string, *cryptofolio.Cryptocurrency]
}

// NewFactory opens the four JSON collections in dir, creating the missing ones.
func NewFactory(dir string) (*Factory, error) {
	users, err := Open[string, *cryptofolio.User](filepath.Join(dir, UsersFile))
	if err != nil {
		return nil, err
	}
	portfolios, err := Open[string, *cryptofolio.Portfolio](filepath.Join(dir, PortfoliosFile))
	if err != nil {
		return nil, err
	}
	transactions, err := Open[string, *cryptofolio.Transaction](filepath.Join(dir, TransactionsFile))
	if err != nil {
		return nil, err
	}
	cryptos, err := Open[string, *cryptofolio.Cryptocurrency](filepath.Join(dir, CryptocurrenciesFile))
	if err != nil {
		return nil, err
	}
	return &Factory{
		Users:            users,
		Portfolios:       portfolios,
		Transactions:     transactions,
		Cryptocurrencies: cryptos,
	}, nil
}

// Commit saves the four collections concurrently and returns the first failure.
func (f *Factory) Commit() error {
	var g errgroup.Group
	g.Go(f.Users.Save)
	g.Go(f.Portfolios.Save)
	g.Go(f.Transactions.Save)
	g.Go(f.Cryptocurrencies.Save)
	return g.Wait()
}
