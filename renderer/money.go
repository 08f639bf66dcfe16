package renderer

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats an amount in a currency, like $1,234.56. Unknown currencies
// are rendered with two decimals followed by their code.
func Money(value decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return value.StringFixed(2) + " " + currency
	}
	minor := value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// SignedMoney is like Money but always shows the sign. Zero is rendered as "-".
func SignedMoney(value decimal.Decimal, currency string) string {
	switch {
	case value.IsZero():
		return "-"
	case value.IsPositive():
		return "+" + Money(value, currency)
	default:
		return Money(value, currency)
	}
}

// Price formats a unit price. Prices finer than the currency minor unit, as
// often with small coins, keep all their digits.
func Price(value decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil || value.Exponent() >= -int32(cur.Fraction) || value.Abs().GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Money(value, currency)
	}
	return value.String() + " " + cur.Code
}
