// Package service implements the use cases of cryptofolio on top of the
// repositories and the price feed.
//
// Services are built explicitly from a *repository.Factory and a PriceFeed;
// there is no global instance.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/pricefeed"
	"github.com/etnz/cryptofolio/repository"
)

// PriceFeed is the remote source of market data. *pricefeed.Client implements it.
type PriceFeed interface {
	CryptocurrencyInfo(ctx context.Context, symbol string) (pricefeed.Info, error)
	AllCryptocurrencies(ctx context.Context) ([]pricefeed.Info, error)
	Candles(ctx context.Context, symbol, interval string, count int) ([]pricefeed.Candle, error)
}

// ErrInvalidCredentials is returned by Login when the login or the password
// does not match. It does not tell which one.
var ErrInvalidCredentials = errors.New("invalid login or password")

// Services gathers every service, sharing the same repositories.
type Services struct {
	Users            *Users
	Portfolios       *Portfolios
	Transactions     *Transactions
	Cryptocurrencies *Cryptocurrencies
}

// New builds all services.
func New(repos *repository.Factory, feed PriceFeed) *Services {
	return &Services{
		Users:            NewUsers(repos),
		Portfolios:       NewPortfolios(repos),
		Transactions:     NewTransactions(repos),
		Cryptocurrencies: NewCryptocurrencies(repos, feed),
	}
}

// persist wraps a storage failure with the use case that hit it. Other errors
// are returned unchanged.
func persist(op string, err error) error {
	if err != nil && errors.Is(err, cryptofolio.ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return err
}

func notFound(kind, key string) error {
	return &cryptofolio.NotFoundError{Kind: kind, Key: key}
}

// undo reverts a write already done by a use case whose next write failed.
// A failure to revert is logged; the next Commit rewrites the files from
// memory.
func undo(op string, revert func() error) {
	if err := revert(); err != nil {
		log.Printf("%s: cannot revert: %v", op, err)
	}
}
