package cryptofolio

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of a transaction.
type TransactionType string

// Transaction types.
const (
	Buy                TransactionType = "BUY"
	Sell               TransactionType = "SELL"
	TransferWithdrawal TransactionType = "TRANSFER_WITHDRAWAL"
	TransferDeposit    TransactionType = "TRANSFER_DEPOSIT"
)

// TransactionTypes lists every valid transaction type.
var TransactionTypes = []TransactionType{Buy, Sell, TransferWithdrawal, TransferDeposit}

// Valid reports whether t is one of the four transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case Buy, Sell, TransferWithdrawal, TransferDeposit:
		return true
	default:
		return false
	}
}

// Inflow reports whether t increases the held quantity.
func (t TransactionType) Inflow() bool { return t == Buy || t == TransferDeposit }

// ParseTransactionType parses a transaction type, ignoring case. Dashes are
// accepted in place of underscores ("transfer-deposit").
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
	return t, nil
}

// MaxDescriptionLength is the maximum number of characters in a transaction description.
const MaxDescriptionLength = 256

// Transaction records a movement of a cryptocurrency in a portfolio.
//
// The creation timestamp and the traded quantities are immutable; only the
// recorded profit and the fees can change after creation.
type Transaction struct {
	id          string
	portfolioID string
	crypto      *Cryptocurrency
	kind        TransactionType
	amount      decimal.Decimal
	costs       decimal.Decimal
	fees        decimal.Decimal
	profit      decimal.Decimal
	description string
	createdAt   time.Time
}

// TransactionParams holds the fields of a transaction to create.
type TransactionParams struct {
	ID             string          // ID defaults to a new UUID.
	PortfolioID    string          // PortfolioID is the owning portfolio.
	Cryptocurrency *Cryptocurrency // Cryptocurrency is the traded coin, copied into the transaction.
	Type           TransactionType
	Amount         decimal.Decimal // Amount is the traded quantity.
	Costs          decimal.Decimal // Costs is the money spent (cost basis) for the amount.
	Fees           decimal.Decimal
	Profit         decimal.Decimal // Profit is the recorded profit figure, used by SELL.
	Description    string
	CreatedAt      time.Time // CreatedAt defaults to now.
}

// NewTransaction validates all fields at once and returns the new transaction
// or a *ValidationError listing every violation.
func NewTransaction(p TransactionParams) (*Transaction, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return newTransaction(p)
}

// newTransaction builds a transaction without applying any default.
func newTransaction(p TransactionParams) (*Transaction, error) {
	tx := &Transaction{
		id:          p.ID,
		portfolioID: p.PortfolioID,
		crypto:      p.Cryptocurrency.Clone(),
		kind:        p.Type,
		amount:      p.Amount,
		costs:       p.Costs,
		fees:        p.Fees,
		profit:      p.Profit,
		description: strings.TrimSpace(p.Description),
		createdAt:   p.CreatedAt.UTC(),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// Validate checks every invariant and returns a *ValidationError if any fails.
func (tx *Transaction) Validate() error {
	var v Violations
	checkUUID(&v, "id", tx.id)
	checkUUID(&v, "portfolio id", tx.portfolioID)
	if v.Check(tx.crypto != nil, "cryptocurrency is required") {
		if err := tx.crypto.Validate(); err != nil {
			v.Add("cryptocurrency is invalid: %v", err)
		}
	}
	v.Check(tx.kind.Valid(), fmt.Sprintf("type must be one of %v, got %q", TransactionTypes, tx.kind))
	v.Positive("amount", tx.amount)
	v.NonNegative("costs", tx.costs)
	v.NonNegative("fees", tx.fees)
	v.MaxLength("description", tx.description, MaxDescriptionLength)
	if v.Check(!tx.createdAt.IsZero(), "creation date is required") {
		v.Check(!tx.createdAt.After(time.Now()), "creation date must not be in the future")
	}
	return v.Err("transaction")
}

// IsValid reports whether tx satisfies all its invariants.
func (tx *Transaction) IsValid() bool { return tx != nil && tx.Validate() == nil }

func checkUUID(v *Violations, field, id string) {
	if v.Required(field, id) {
		if _, err := uuid.Parse(id); err != nil {
			v.Add("%s must be a UUID, got %q", field, id)
		}
	}
}

func (tx *Transaction) Key() string                     { return tx.id }
func (tx *Transaction) ID() string                      { return tx.id }
func (tx *Transaction) PortfolioID() string             { return tx.portfolioID }
func (tx *Transaction) Type() TransactionType           { return tx.kind }
func (tx *Transaction) Amount() decimal.Decimal         { return tx.amount }
func (tx *Transaction) Costs() decimal.Decimal          { return tx.costs }
func (tx *Transaction) Fees() decimal.Decimal           { return tx.fees }
func (tx *Transaction) Profit() decimal.Decimal         { return tx.profit }
func (tx *Transaction) Description() string             { return tx.description }
func (tx *Transaction) CreatedAt() time.Time            { return tx.createdAt }
func (tx *Transaction) Cryptocurrency() *Cryptocurrency { return tx.crypto.Clone() }

// Symbol returns the symbol of the traded cryptocurrency.
func (tx *Transaction) Symbol() string {
	if tx.crypto == nil {
		return ""
	}
	return tx.crypto.Symbol()
}

// Signed returns the effect of tx on the held quantity: positive for BUY and
// TRANSFER_DEPOSIT, negative for SELL and TRANSFER_WITHDRAWAL.
func (tx *Transaction) Signed() decimal.Decimal {
	if tx.kind.Inflow() {
		return tx.amount
	}
	return tx.amount.Neg()
}

// Clone returns an independent copy of tx.
func (tx *Transaction) Clone() *Transaction {
	if tx == nil {
		return nil
	}
	cp := *tx
	cp.crypto = tx.crypto.Clone()
	return &cp
}

// SetProfit records a new profit figure.
func (tx *Transaction) SetProfit(profit decimal.Decimal) { tx.profit = profit }

// SetFees changes the fees. On failure tx is left unchanged.
func (tx *Transaction) SetFees(fees decimal.Decimal) error {
	var v Violations
	v.NonNegative("fees", fees)
	if err := v.Err("transaction"); err != nil {
		return err
	}
	tx.fees = fees
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", tx.id)
	w.Append("portfolioId", tx.portfolioID)
	w.Append("cryptocurrency", tx.crypto)
	w.Append("type", tx.kind)
	w.Append("amount", tx.amount)
	w.Append("costs", tx.costs)
	w.Append("fees", tx.fees)
	w.Append("profit", tx.profit)
	w.Optional("description", tx.description)
	w.Append("createdAt", formatTimestamp(tx.createdAt))
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// The decoded value goes through the same validation as NewTransaction but no
// default is applied.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID             string          `json:"id"`
		PortfolioID    string          `json:"portfolioId"`
		Cryptocurrency *Cryptocurrency `json:"cryptocurrency"`
		Type           TransactionType `json:"type"`
		Amount         decimal.Decimal `json:"amount"`
		Costs          decimal.Decimal `json:"costs"`
		Fees           decimal.Decimal `json:"fees"`
		Profit         decimal.Decimal `json:"profit"`
		Description    string          `json:"description"`
		CreatedAt      string          `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	createdAt, err := parseTimestamp("createdAt", temp.CreatedAt)
	if err != nil {
		return err
	}
	n, err := newTransaction(TransactionParams{
		ID:             temp.ID,
		PortfolioID:    temp.PortfolioID,
		Cryptocurrency: temp.Cryptocurrency,
		Type:           temp.Type,
		Amount:         temp.Amount,
		Costs:          temp.Costs,
		Fees:           temp.Fees,
		Profit:         temp.Profit,
		Description:    temp.Description,
		CreatedAt:      createdAt,
	})
	if err != nil {
		return err
	}
	*tx = *n
	return nil
}
