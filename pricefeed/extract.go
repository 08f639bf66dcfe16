package pricefeed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// lookup evaluates a JSONPath expression on a decoded payload.
func lookup(payload any, path string) (any, error) {
	v, err := jsonpath.Get(path, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// extractor reads typed fields out of a decoded payload and keeps the first
// error, so that a whole DTO can be filled before checking.
type extractor struct {
	err error
}

func (e *extractor) value(obj any, path string) any {
	if e.err != nil {
		return nil
	}
	v, err := lookup(obj, path)
	if err != nil {
		e.err = err
		return nil
	}
	return v
}

// String reads a string field.
func (e *extractor) String(obj any, path string) string {
	v := e.value(obj, path)
	if e.err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		e.err = fmt.Errorf("%s: want a string, got %T", path, v)
	}
	return s
}

// Decimal reads a number field exactly. A null counts as zero: the feed
// reports unknown market caps that way.
func (e *extractor) Decimal(obj any, path string) decimal.Decimal {
	v := e.value(obj, path)
	if e.err != nil {
		return decimal.Zero
	}
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			e.err = fmt.Errorf("%s: %w", path, err)
		}
		return d
	case float64:
		return decimal.NewFromFloat(n)
	default:
		e.err = fmt.Errorf("%s: want a number, got %T", path, v)
		return decimal.Zero
	}
}

// Time reads an RFC 3339 timestamp field.
func (e *extractor) Time(obj any, path string) time.Time {
	s := e.String(obj, path)
	if e.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", path, err)
	}
	return t.UTC()
}
