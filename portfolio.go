package cryptofolio

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portfolio is a named set of held cryptocurrencies owned by a user.
//
// The owner and the transactions are referenced by id. The total value is a
// cache derived from the watchlist: it is recomputed after every watchlist
// change, and Revalue must be called explicitly after prices change elsewhere.
type Portfolio struct {
	id           string
	ownerID      string
	name         string
	totalValue   decimal.Decimal
	watchlist    []*Cryptocurrency // insertion order, unique symbols
	transactions []string          // transaction ids, insertion order
}

// NewPortfolio returns a new portfolio owned by ownerID, holding watchlist.
// It returns a *ValidationError listing every violation, including invalid or
// duplicated watchlist entries.
func NewPortfolio(ownerID, name string, watchlist ...*Cryptocurrency) (*Portfolio, error) {
	return newPortfolio(uuid.NewString(), ownerID, name, watchlist, nil)
}

func newPortfolio(id, ownerID, name string, watchlist []*Cryptocurrency, txs []string) (*Portfolio, error) {
	p := &Portfolio{
		id:           id,
		ownerID:      ownerID,
		name:         strings.TrimSpace(name),
		watchlist:    make([]*Cryptocurrency, 0, len(watchlist)),
		transactions: append([]string{}, txs...),
	}
	for _, c := range watchlist {
		p.watchlist = append(p.watchlist, c.Clone())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.recompute()
	return p, nil
}

func checkPortfolioName(v *Violations, name string) {
	if v.Required("name", name) {
		v.Length("name", name, 1, 64)
		v.Pattern("name", name, identifier, "letters, digits and underscores")
	}
}

// Validate checks every invariant and returns a *ValidationError if any fails.
func (p *Portfolio) Validate() error {
	var v Violations
	checkUUID(&v, "id", p.id)
	checkUUID(&v, "owner id", p.ownerID)
	checkPortfolioName(&v, p.name)
	seen := make(map[string]bool)
	for i, c := range p.watchlist {
		if c == nil {
			v.Add("watchlist entry %d is missing", i)
			continue
		}
		if err := c.Validate(); err != nil {
			v.Add("watchlist entry %d is invalid: %v", i, err)
		}
		if seen[c.Symbol()] {
			v.Add("watchlist holds %s twice", c.Symbol())
		}
		seen[c.Symbol()] = true
	}
	for _, id := range p.transactions {
		v.Check(id != "", "transaction id is required")
	}
	return v.Err("portfolio")
}

// IsValid reports whether p satisfies all its invariants.
func (p *Portfolio) IsValid() bool { return p != nil && p.Validate() == nil }

func (p *Portfolio) Key() string                 { return p.id }
func (p *Portfolio) ID() string                  { return p.id }
func (p *Portfolio) OwnerID() string             { return p.ownerID }
func (p *Portfolio) Name() string                { return p.name }
func (p *Portfolio) TotalValue() decimal.Decimal { return p.totalValue }
func (p *Portfolio) Transactions() []string      { return slices.Clone(p.transactions) }

// Watchlist returns copies of the held cryptocurrencies in insertion order.
func (p *Portfolio) Watchlist() []*Cryptocurrency {
	list := make([]*Cryptocurrency, len(p.watchlist))
	for i, c := range p.watchlist {
		list[i] = c.Clone()
	}
	return list
}

func (p *Portfolio) indexOf(symbol string) int {
	symbol = CanonicalSymbol(symbol)
	return slices.IndexFunc(p.watchlist, func(c *Cryptocurrency) bool { return c.Symbol() == symbol })
}

// Holds reports whether symbol is in the watchlist.
func (p *Portfolio) Holds(symbol string) bool { return p.indexOf(symbol) >= 0 }

// Holding returns a copy of the watchlist entry for symbol.
func (p *Portfolio) Holding(symbol string) (*Cryptocurrency, bool) {
	i := p.indexOf(symbol)
	if i < 0 {
		return nil, false
	}
	return p.watchlist[i].Clone(), true
}

// recompute refreshes the total value from the watchlist's own prices.
func (p *Portfolio) recompute() {
	p.totalValue = TotalValue(p.watchlist, PricesOf(p.watchlist))
}

// Revalue refreshes the watchlist prices known to prices and recomputes the
// total value. Symbols unknown to prices are worth zero. It returns the new
// total value.
func (p *Portfolio) Revalue(prices PriceSource) decimal.Decimal {
	for _, c := range p.watchlist {
		if price := priceOf(prices, c.Symbol()); price.IsPositive() {
			// price is positive, SetPrice cannot fail.
			_ = c.SetPrice(price)
		}
	}
	p.totalValue = TotalValue(p.watchlist, prices)
	return p.totalValue
}

// Clone returns an independent copy of p, watchlist entries included.
func (p *Portfolio) Clone() *Portfolio {
	if p == nil {
		return nil
	}
	cp := *p
	cp.watchlist = make([]*Cryptocurrency, len(p.watchlist))
	for i, c := range p.watchlist {
		cp.watchlist[i] = c.Clone()
	}
	cp.transactions = slices.Clone(p.transactions)
	return &cp
}

// SetName renames the portfolio. On failure p is left unchanged.
func (p *Portfolio) SetName(name string) error {
	name = strings.TrimSpace(name)
	var v Violations
	checkPortfolioName(&v, name)
	if err := v.Err("portfolio"); err != nil {
		return err
	}
	p.name = name
	return nil
}

// AddCryptocurrency appends a copy of c to the watchlist.
//
// An invalid c is refused with a *ValidationError, a symbol already held with
// a *DuplicateError. In both cases p is left unchanged.
func (p *Portfolio) AddCryptocurrency(c *Cryptocurrency) error {
	var v Violations
	if v.Check(c != nil, "cryptocurrency is required") {
		if err := c.Validate(); err != nil {
			v.Add("cryptocurrency is invalid: %v", err)
		}
	}
	if err := v.Err("portfolio"); err != nil {
		return err
	}
	if p.Holds(c.Symbol()) {
		return &DuplicateError{Kind: "watchlist entry", Field: "symbol", Value: c.Symbol()}
	}
	p.watchlist = append(p.watchlist, c.Clone())
	p.recompute()
	return nil
}

// RemoveCryptocurrency drops symbol from the watchlist and reports whether it
// was held.
func (p *Portfolio) RemoveCryptocurrency(symbol string) bool {
	i := p.indexOf(symbol)
	if i < 0 {
		return false
	}
	p.watchlist = slices.Delete(p.watchlist, i, i+1)
	p.recompute()
	return true
}

// Credit adds amount units of c to the watchlist, appending c when it is not
// held yet. The held entry takes the price of c.
func (p *Portfolio) Credit(c *Cryptocurrency, amount decimal.Decimal) error {
	var v Violations
	v.Positive("amount", amount)
	if v.Check(c != nil, "cryptocurrency is required") {
		if err := c.Validate(); err != nil {
			v.Add("cryptocurrency is invalid: %v", err)
		}
	}
	if err := v.Err("portfolio"); err != nil {
		return err
	}

	i := p.indexOf(c.Symbol())
	if i < 0 {
		held, err := c.WithCount(amount)
		if err != nil {
			return err
		}
		p.watchlist = append(p.watchlist, held)
	} else {
		held := p.watchlist[i].Clone()
		if err := errors.Join(held.SetCount(held.Count().Add(amount)), held.SetPrice(c.Price())); err != nil {
			return err
		}
		p.watchlist[i] = held
	}
	p.recompute()
	return nil
}

// Debit removes amount units of symbol from the watchlist. The entry is
// dropped when its count reaches zero. Debiting more than held is a
// *ValidationError and leaves p unchanged.
func (p *Portfolio) Debit(symbol string, amount decimal.Decimal) error {
	symbol = CanonicalSymbol(symbol)
	var v Violations
	v.Positive("amount", amount)
	i := p.indexOf(symbol)
	if v.Check(i >= 0, "portfolio does not hold "+symbol) && amount.IsPositive() {
		held := p.watchlist[i].Count()
		if amount.GreaterThan(held) {
			v.Add("cannot debit %s %s, portfolio holds %s", amount, symbol, held)
		}
	}
	if err := v.Err("portfolio"); err != nil {
		return err
	}

	remaining := p.watchlist[i].Count().Sub(amount)
	if remaining.IsZero() {
		p.watchlist = slices.Delete(p.watchlist, i, i+1)
	} else {
		held := p.watchlist[i].Clone()
		if err := held.SetCount(remaining); err != nil {
			return err
		}
		p.watchlist[i] = held
	}
	p.recompute()
	return nil
}

// AddTransaction records a transaction id. Adding a known id does nothing.
func (p *Portfolio) AddTransaction(id string) error {
	var v Violations
	v.Required("transaction id", id)
	if err := v.Err("portfolio"); err != nil {
		return err
	}
	if !slices.Contains(p.transactions, id) {
		p.transactions = append(p.transactions, id)
	}
	return nil
}

// RemoveTransaction forgets a transaction id and reports whether it was recorded.
func (p *Portfolio) RemoveTransaction(id string) bool {
	i := slices.Index(p.transactions, id)
	if i < 0 {
		return false
	}
	p.transactions = slices.Delete(p.transactions, i, i+1)
	return true
}

// MarshalJSON implements the json.Marshaler interface for Portfolio.
func (p *Portfolio) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.id)
	w.Append("ownerId", p.ownerID)
	w.Append("name", p.name)
	w.Append("totalValue", p.totalValue)
	w.Append("watchlist", p.watchlist)
	w.Append("transactions", p.transactions)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Portfolio.
// The decoded value is validated. The persisted total value is kept as is,
// since it may come from an explicit Revalue.
func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           string            `json:"id"`
		OwnerID      string            `json:"ownerId"`
		Name         string            `json:"name"`
		TotalValue   decimal.Decimal   `json:"totalValue"`
		Watchlist    []*Cryptocurrency `json:"watchlist"`
		Transactions []string          `json:"transactions"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	n, err := newPortfolio(temp.ID, temp.OwnerID, temp.Name, temp.Watchlist, temp.Transactions)
	if err != nil {
		return err
	}
	n.totalValue = temp.TotalValue
	*p = *n
	return nil
}
