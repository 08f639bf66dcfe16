package service

import (
	"context"
	"log"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/pricefeed"
	"github.com/etnz/cryptofolio/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Cryptocurrencies manages the reference data: the known symbols and their
// current prices.
type Cryptocurrencies struct {
	repos *repository.Factory
	feed  PriceFeed
}

func NewCryptocurrencies(repos *repository.Factory, feed PriceFeed) *Cryptocurrencies {
	return &Cryptocurrencies{repos: repos, feed: feed}
}

// Add registers a cryptocurrency with its current price.
func (s *Cryptocurrencies) Add(symbol, name string, price decimal.Decimal) (*cryptofolio.Cryptocurrency, error) {
	c, err := cryptofolio.NewCryptocurrency(symbol, name, price, decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}
	if _, ok := s.repos.Cryptocurrencies.FindByID(c.Symbol()); ok {
		return nil, &cryptofolio.DuplicateError{Kind: "cryptocurrency", Field: "symbol", Value: c.Symbol()}
	}
	if _, err := s.repos.Cryptocurrencies.Add(c); err != nil {
		return nil, persist("add "+c.Symbol(), err)
	}
	return c, nil
}

func (s *Cryptocurrencies) GetBySymbol(symbol string) (*cryptofolio.Cryptocurrency, error) {
	symbol = cryptofolio.CanonicalSymbol(symbol)
	c, ok := s.repos.Cryptocurrencies.FindByID(symbol)
	if !ok {
		return nil, notFound("cryptocurrency", symbol)
	}
	return c, nil
}

func (s *Cryptocurrencies) GetAll() []*cryptofolio.Cryptocurrency {
	return s.repos.Cryptocurrencies.FindAll()
}

// Remove forgets a cryptocurrency. An unknown symbol is a
// *cryptofolio.NotFoundError. Watchlists and transactions keep their own copy.
func (s *Cryptocurrencies) Remove(symbol string) (bool, error) {
	c, err := s.GetBySymbol(symbol)
	if err != nil {
		return false, err
	}
	removed, err := s.repos.Cryptocurrencies.Remove(c)
	return removed, persist("remove "+c.Symbol(), err)
}

// List returns the cryptocurrencies listed by the feed. When the feed fails,
// the failure is logged and the known cryptocurrencies are returned instead.
// Listed entries that are not valid cryptocurrencies are skipped.
func (s *Cryptocurrencies) List(ctx context.Context) []*cryptofolio.Cryptocurrency {
	infos, err := s.feed.AllCryptocurrencies(ctx)
	if err != nil {
		log.Printf("cannot list cryptocurrencies, using known ones: %v", err)
		return s.GetAll()
	}
	list := make([]*cryptofolio.Cryptocurrency, 0, len(infos))
	for _, info := range infos {
		c, err := info.Cryptocurrency()
		if err != nil {
			log.Printf("skipping %s: %v", info.Symbol, err)
			continue
		}
		list = append(list, c)
	}
	return list
}

// SyncPrice updates the price of a cryptocurrency from the feed, registering
// it when it is not known yet. Feed failures are returned.
func (s *Cryptocurrencies) SyncPrice(ctx context.Context, symbol string) (*cryptofolio.Cryptocurrency, error) {
	info, err := s.feed.CryptocurrencyInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.apply(info)
}

// apply stores the price of info.
func (s *Cryptocurrencies) apply(info pricefeed.Info) (*cryptofolio.Cryptocurrency, error) {
	c, ok := s.repos.Cryptocurrencies.FindByID(cryptofolio.CanonicalSymbol(info.Symbol))
	if ok {
		c = c.Clone()
		if err := c.SetPrice(info.Price); err != nil {
			return nil, err
		}
	} else {
		var err error
		if c, err = info.Cryptocurrency(); err != nil {
			return nil, err
		}
	}
	if _, err := s.repos.Cryptocurrencies.Add(c); err != nil {
		return nil, persist("update price of "+c.Symbol(), err)
	}
	log.Printf("%s is now worth %s", c.Symbol(), c.Price())
	return c, nil
}

// SyncAll updates the prices of all known cryptocurrencies. Quotes are fetched
// concurrently; prices are stored only if every quote was fetched.
func (s *Cryptocurrencies) SyncAll(ctx context.Context) ([]*cryptofolio.Cryptocurrency, error) {
	known := s.GetAll()
	infos := make([]pricefeed.Info, len(known))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range known {
		g.Go(func() error {
			info, err := s.feed.CryptocurrencyInfo(ctx, c.Symbol())
			infos[i] = info
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	updated := make([]*cryptofolio.Cryptocurrency, 0, len(infos))
	for _, info := range infos {
		c, err := s.apply(info)
		if err != nil {
			return updated, err
		}
		updated = append(updated, c)
	}
	return updated, nil
}

// Candles returns the last count OHLC candles of a symbol, as given by the feed.
func (s *Cryptocurrencies) Candles(ctx context.Context, symbol, interval string, count int) ([]pricefeed.Candle, error) {
	return s.feed.Candles(ctx, symbol, interval, count)
}
