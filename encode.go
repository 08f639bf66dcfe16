package cryptofolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary values persist as JSON numbers holding every digit.
	decimal.MarshalJSONWithoutQuotes = true
}

// TimestampFormat is the textual form of persisted instants. It keeps
// nanoseconds so that a decoded instant equals the encoded one.
const TimestampFormat = time.RFC3339Nano

// formatTimestamp returns the canonical text of t, always in UTC.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// parseTimestamp parses a value written by formatTimestamp. An empty string is
// the zero instant so that entity validation can report it.
func parseTimestamp(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return t.UTC(), nil
}
