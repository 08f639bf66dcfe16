package service

import (
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/repository"
	"github.com/shopspring/decimal"
)

// TransactionRequest describes a transaction to record.
type TransactionRequest struct {
	PortfolioID string
	Symbol      string
	Type        cryptofolio.TransactionType
	Amount      decimal.Decimal
	Costs       decimal.Decimal
	Fees        decimal.Decimal
	Description string
	CreatedAt   time.Time // CreatedAt defaults to now.
}

// Transactions records movements in portfolios.
type Transactions struct {
	repos *repository.Factory
}

func NewTransactions(repos *repository.Factory) *Transactions {
	return &Transactions{repos: repos}
}

// Add records a transaction and applies it to the holdings of its portfolio.
//
// The transaction embeds a snapshot of the reference cryptocurrency. A SELL
// records its proceeds (reference price × amount) as its profit figure.
// Withdrawing or selling more than held is a *cryptofolio.ValidationError.
func (s *Transactions) Add(req TransactionRequest) (*cryptofolio.Transaction, error) {
	p, ok := s.repos.Portfolios.FindByID(req.PortfolioID)
	if !ok {
		return nil, notFound("portfolio", req.PortfolioID)
	}
	p = p.Clone()
	symbol := cryptofolio.CanonicalSymbol(req.Symbol)
	ref, ok := s.repos.Cryptocurrencies.FindByID(symbol)
	if !ok {
		return nil, notFound("cryptocurrency", symbol)
	}

	var profit decimal.Decimal
	if req.Type == cryptofolio.Sell {
		profit = ref.Price().Mul(req.Amount)
	}
	tx, err := cryptofolio.NewTransaction(cryptofolio.TransactionParams{
		PortfolioID:    p.ID(),
		Cryptocurrency: ref,
		Type:           req.Type,
		Amount:         req.Amount,
		Costs:          req.Costs,
		Fees:           req.Fees,
		Profit:         profit,
		Description:    req.Description,
		CreatedAt:      req.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	if tx.Type().Inflow() {
		err = p.Credit(ref, tx.Amount())
	} else {
		err = p.Debit(symbol, tx.Amount())
	}
	if err != nil {
		return nil, err
	}
	if err := p.AddTransaction(tx.ID()); err != nil {
		return nil, err
	}

	if _, err := s.repos.Transactions.Add(tx); err != nil {
		return nil, persist("record transaction", err)
	}
	if _, err := s.repos.Portfolios.Add(p); err != nil {
		undo("record transaction", func() error {
			_, err := s.repos.Transactions.Remove(tx)
			return err
		})
		return nil, persist("record transaction", err)
	}
	return tx, nil
}

func (s *Transactions) GetByID(id string) (*cryptofolio.Transaction, error) {
	tx, ok := s.repos.Transactions.FindByID(id)
	if !ok {
		return nil, notFound("transaction", id)
	}
	return tx, nil
}

// GetByPortfolio returns the transactions of a portfolio in recording order.
func (s *Transactions) GetByPortfolio(portfolioID string) []*cryptofolio.Transaction {
	return s.repos.Transactions.FindAllFunc(func(tx *cryptofolio.Transaction) bool {
		return tx.PortfolioID() == portfolioID
	})
}

func (s *Transactions) GetAll() []*cryptofolio.Transaction { return s.repos.Transactions.FindAll() }

// Remove deletes a transaction and reverts its effect on the holdings of its
// portfolio. Reverting a BUY whose units are no longer held is a
// *cryptofolio.ValidationError.
func (s *Transactions) Remove(id string) error {
	tx, err := s.GetByID(id)
	if err != nil {
		return err
	}
	p, ok := s.repos.Portfolios.FindByID(tx.PortfolioID())
	if ok {
		p = p.Clone()
		if tx.Type().Inflow() {
			err = p.Debit(tx.Symbol(), tx.Amount())
		} else {
			c := tx.Cryptocurrency()
			if ref, ok := s.repos.Cryptocurrencies.FindByID(tx.Symbol()); ok {
				c = ref
			}
			err = p.Credit(c, tx.Amount())
		}
		if err != nil {
			return err
		}
		p.RemoveTransaction(id)
	}

	if _, err := s.repos.Transactions.Remove(tx); err != nil {
		return persist("remove transaction "+id, err)
	}
	if ok {
		if _, err := s.repos.Portfolios.Add(p); err != nil {
			undo("remove transaction "+id, func() error {
				_, err := s.repos.Transactions.Add(tx)
				return err
			})
			return persist("remove transaction "+id, err)
		}
	}
	return nil
}

// UpdateFees changes the fees of a transaction.
func (s *Transactions) UpdateFees(id string, fees decimal.Decimal) (*cryptofolio.Transaction, error) {
	tx, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	tx = tx.Clone()
	if err := tx.SetFees(fees); err != nil {
		return nil, err
	}
	if _, err := s.repos.Transactions.Add(tx); err != nil {
		return nil, persist("update transaction "+id, err)
	}
	return tx, nil
}

// UpdateProfit changes the recorded profit figure of a transaction.
func (s *Transactions) UpdateProfit(id string, profit decimal.Decimal) (*cryptofolio.Transaction, error) {
	tx, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	tx = tx.Clone()
	tx.SetProfit(profit)
	if _, err := s.repos.Transactions.Add(tx); err != nil {
		return nil, persist("update transaction "+id, err)
	}
	return tx, nil
}

// CalculatePnL returns the profit and loss of a transaction at the reference
// price of its cryptocurrency. It changes nothing.
func (s *Transactions) CalculatePnL(id string) (decimal.Decimal, error) {
	tx, err := s.GetByID(id)
	if err != nil {
		return decimal.Zero, err
	}
	return cryptofolio.PnLAt(tx, s.prices()), nil
}

// TotalPnL sums the profit and loss of the transactions of a portfolio.
func (s *Transactions) TotalPnL(portfolioID string) (decimal.Decimal, error) {
	if _, ok := s.repos.Portfolios.FindByID(portfolioID); !ok {
		return decimal.Zero, notFound("portfolio", portfolioID)
	}
	return cryptofolio.TotalPnL(s.GetByPortfolio(portfolioID), s.prices()), nil
}

func (s *Transactions) prices() cryptofolio.PriceMap {
	return cryptofolio.PricesOf(s.repos.Cryptocurrencies.FindAll())
}
