package cryptofolio

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Cryptocurrency is a coin known by its symbol, with its current price and a
// held count.
//
// It serves both as shared reference data (the current price of a symbol) and
// as a watchlist entry in a Portfolio (how much of it is held). The balance is
// derived from price and count and never set directly.
type Cryptocurrency struct {
	symbol  string
	name    string
	price   decimal.Decimal
	count   decimal.Decimal
	balance decimal.Decimal
}

// NewCryptocurrency validates all fields at once and returns the new
// cryptocurrency, or a *ValidationError listing every violation.
// The symbol is stored in upper case.
func NewCryptocurrency(symbol, name string, price, count decimal.Decimal) (*Cryptocurrency, error) {
	c := &Cryptocurrency{
		symbol: CanonicalSymbol(symbol),
		name:   strings.TrimSpace(name),
		price:  price,
		count:  count,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.rebalance()
	return c, nil
}

// CanonicalSymbol returns the form under which a symbol is stored and looked up.
func CanonicalSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func checkLabel(v *Violations, field, value string) {
	if v.Required(field, value) {
		v.Length(field, value, 2, 50)
		v.Pattern(field, value, alnumSpace, "letters, digits and spaces")
	}
}

func (c *Cryptocurrency) check(v *Violations) {
	checkLabel(v, "symbol", c.symbol)
	checkLabel(v, "name", c.name)
	v.Positive("price", c.price)
	v.Positive("count", c.count)
}

// Validate checks every invariant and returns a *ValidationError if any fails.
func (c *Cryptocurrency) Validate() error {
	var v Violations
	c.check(&v)
	return v.Err("cryptocurrency")
}

// IsValid reports whether c satisfies all its invariants.
func (c *Cryptocurrency) IsValid() bool { return c != nil && c.Validate() == nil }

// rebalance recomputes the derived balance. Negative inputs count as zero.
func (c *Cryptocurrency) rebalance() {
	price := decimal.Max(c.price, decimal.Zero)
	count := decimal.Max(c.count, decimal.Zero)
	c.balance = Round2(price.Mul(count))
}

func (c *Cryptocurrency) Key() string              { return c.symbol }
func (c *Cryptocurrency) Symbol() string           { return c.symbol }
func (c *Cryptocurrency) Name() string             { return c.name }
func (c *Cryptocurrency) Price() decimal.Decimal   { return c.price }
func (c *Cryptocurrency) Count() decimal.Decimal   { return c.count }
func (c *Cryptocurrency) Balance() decimal.Decimal { return c.balance }
func (c *Cryptocurrency) String() string           { return c.symbol + " (" + c.name + ")" }

// SameIdentity reports whether o designates the same coin as c.
func (c *Cryptocurrency) SameIdentity(o *Cryptocurrency) bool {
	return o != nil && c.symbol == o.symbol
}

// SetName changes the display name. On failure c is left unchanged.
func (c *Cryptocurrency) SetName(name string) error {
	name = strings.TrimSpace(name)
	var v Violations
	checkLabel(&v, "name", name)
	if err := v.Err("cryptocurrency"); err != nil {
		return err
	}
	c.name = name
	return nil
}

// SetPrice changes the current price and recomputes the balance.
// On failure c is left unchanged.
func (c *Cryptocurrency) SetPrice(price decimal.Decimal) error {
	var v Violations
	v.Positive("price", price)
	if err := v.Err("cryptocurrency"); err != nil {
		return err
	}
	c.price = price
	c.rebalance()
	return nil
}

// SetCount changes the held count and recomputes the balance.
// On failure c is left unchanged.
func (c *Cryptocurrency) SetCount(count decimal.Decimal) error {
	var v Violations
	v.Positive("count", count)
	if err := v.Err("cryptocurrency"); err != nil {
		return err
	}
	c.count = count
	c.rebalance()
	return nil
}

// Clone returns an independent copy of c.
func (c *Cryptocurrency) Clone() *Cryptocurrency {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// WithCount returns a copy of c holding count units.
func (c *Cryptocurrency) WithCount(count decimal.Decimal) (*Cryptocurrency, error) {
	cp := c.Clone()
	if err := cp.SetCount(count); err != nil {
		return nil, err
	}
	return cp, nil
}

// MarshalJSON implements the json.Marshaler interface for Cryptocurrency.
func (c *Cryptocurrency) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", c.symbol)
	w.Append("name", c.name)
	w.Append("currentPrice", c.price)
	w.Append("count", c.count)
	w.Append("balance", c.balance)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Cryptocurrency.
// The decoded value goes through the same validation as NewCryptocurrency;
// the persisted balance is ignored and recomputed.
func (c *Cryptocurrency) UnmarshalJSON(data []byte) error {
	var temp struct {
		Symbol string          `json:"symbol"`
		Name   string          `json:"name"`
		Price  decimal.Decimal `json:"currentPrice"`
		Count  decimal.Decimal `json:"count"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	n, err := NewCryptocurrency(temp.Symbol, temp.Name, temp.Price, temp.Count)
	if err != nil {
		return err
	}
	*c = *n
	return nil
}
