package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// decimalValue is a flag.Value for exact decimal numbers.
type decimalValue struct{ d *decimal.Decimal }

func (v decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*v.d = d
	return nil
}

// timeValue is a flag.Value for an RFC 3339 timestamp or a date.
type timeValue struct{ t *time.Time }

func (v timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339)
}

func (v timeValue) Set(s string) error {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			*v.t = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC 3339", s)
}
