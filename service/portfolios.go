package service

import (
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/repository"
	"github.com/shopspring/decimal"
)

// Portfolios manages the portfolios of users and their watchlists.
type Portfolios struct {
	repos *repository.Factory
}

func NewPortfolios(repos *repository.Factory) *Portfolios {
	return &Portfolios{repos: repos}
}

// Add creates a portfolio for a user. A user owns at most
// cryptofolio.MaxPortfolios portfolios, with distinct names.
func (s *Portfolios) Add(userID, name string) (*cryptofolio.Portfolio, error) {
	u, ok := s.repos.Users.FindByID(userID)
	if !ok {
		return nil, notFound("user", userID)
	}
	p, err := cryptofolio.NewPortfolio(userID, name)
	if err != nil {
		return nil, err
	}
	for _, other := range s.GetByUser(userID) {
		if strings.EqualFold(other.Name(), p.Name()) {
			return nil, &cryptofolio.DuplicateError{Kind: "portfolio", Field: "name", Value: p.Name()}
		}
	}
	u = u.Clone()
	if err := u.AddPortfolio(p.ID()); err != nil {
		return nil, err
	}
	if _, err := s.repos.Portfolios.Add(p); err != nil {
		return nil, persist("add portfolio "+p.Name(), err)
	}
	if _, err := s.repos.Users.Add(u); err != nil {
		undo("add portfolio "+p.Name(), func() error {
			_, err := s.repos.Portfolios.Remove(p)
			return err
		})
		return nil, persist("add portfolio "+p.Name(), err)
	}
	return p, nil
}

func (s *Portfolios) GetByID(id string) (*cryptofolio.Portfolio, error) {
	p, ok := s.repos.Portfolios.FindByID(id)
	if !ok {
		return nil, notFound("portfolio", id)
	}
	return p, nil
}

// GetByUser returns the portfolios owned by a user, in creation order.
func (s *Portfolios) GetByUser(userID string) []*cryptofolio.Portfolio {
	return s.repos.Portfolios.FindAllFunc(func(p *cryptofolio.Portfolio) bool { return p.OwnerID() == userID })
}

func (s *Portfolios) GetAll() []*cryptofolio.Portfolio { return s.repos.Portfolios.FindAll() }

// Rename changes the name of a portfolio.
func (s *Portfolios) Rename(id, name string) (*cryptofolio.Portfolio, error) {
	p, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	p = p.Clone()
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if _, err := s.repos.Portfolios.Add(p); err != nil {
		return nil, persist("rename portfolio "+id, err)
	}
	return p, nil
}

// Remove deletes a portfolio and its transactions, and detaches it from its
// owner.
func (s *Portfolios) Remove(id string) error {
	p, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if u, ok := s.repos.Users.FindByID(p.OwnerID()); ok && u.HasPortfolio(id) {
		u = u.Clone()
		u.RemovePortfolio(id)
		if _, err := s.repos.Users.Add(u); err != nil {
			return persist("remove portfolio "+p.Name(), err)
		}
	}
	return persist("remove portfolio "+p.Name(), removePortfolio(s.repos, id))
}

// removePortfolio deletes a portfolio and its transactions. A missing
// portfolio is not an error.
func removePortfolio(repos *repository.Factory, id string) error {
	txs := repos.Transactions.FindAllFunc(func(tx *cryptofolio.Transaction) bool { return tx.PortfolioID() == id })
	for _, tx := range txs {
		if _, err := repos.Transactions.Remove(tx); err != nil {
			return err
		}
	}
	if p, ok := repos.Portfolios.FindByID(id); ok {
		if _, err := repos.Portfolios.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

// AddCryptocurrency adds count units of a known cryptocurrency to the
// watchlist of a portfolio, at its current reference price.
func (s *Portfolios) AddCryptocurrency(portfolioID, symbol string, count decimal.Decimal) (*cryptofolio.Portfolio, error) {
	p, err := s.GetByID(portfolioID)
	if err != nil {
		return nil, err
	}
	p = p.Clone()
	ref, ok := s.repos.Cryptocurrencies.FindByID(cryptofolio.CanonicalSymbol(symbol))
	if !ok {
		return nil, notFound("cryptocurrency", cryptofolio.CanonicalSymbol(symbol))
	}
	held, err := ref.WithCount(count)
	if err != nil {
		return nil, err
	}
	if err := p.AddCryptocurrency(held); err != nil {
		return nil, err
	}
	if _, err := s.repos.Portfolios.Add(p); err != nil {
		return nil, persist("watch "+held.Symbol(), err)
	}
	return p, nil
}

// RemoveCryptocurrency drops a symbol from the watchlist of a portfolio and
// reports whether it was held.
func (s *Portfolios) RemoveCryptocurrency(portfolioID, symbol string) (bool, error) {
	p, err := s.GetByID(portfolioID)
	if err != nil {
		return false, err
	}
	p = p.Clone()
	if !p.RemoveCryptocurrency(symbol) {
		return false, nil
	}
	if _, err := s.repos.Portfolios.Add(p); err != nil {
		return false, persist("unwatch "+symbol, err)
	}
	return true, nil
}

// CalculateTotalValue values a portfolio at the reference prices of the
// cryptocurrency repository, and persists the result on the portfolio.
func (s *Portfolios) CalculateTotalValue(portfolioID string) (decimal.Decimal, error) {
	p, err := s.GetByID(portfolioID)
	if err != nil {
		return decimal.Zero, err
	}
	p = p.Clone()
	total := p.Revalue(cryptofolio.PricesOf(s.repos.Cryptocurrencies.FindAll()))
	if _, err := s.repos.Portfolios.Add(p); err != nil {
		return decimal.Zero, persist("value portfolio "+p.Name(), err)
	}
	return total, nil
}

// Balances returns the net quantity per symbol of the transactions of a
// portfolio.
func (s *Portfolios) Balances(portfolioID string) (map[string]decimal.Decimal, error) {
	if _, err := s.GetByID(portfolioID); err != nil {
		return nil, err
	}
	txs := s.repos.Transactions.FindAllFunc(func(tx *cryptofolio.Transaction) bool { return tx.PortfolioID() == portfolioID })
	return cryptofolio.Balances(txs), nil
}
