package cryptofolio

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestViolations(t *testing.T) {
	var v Violations
	v.Required("name", "")
	v.Length("symbol", "B", 2, 50)
	v.MaxLength("description", "abcdef", 3)
	v.Pattern("name", "not-valid!", alnumSpace, "letters, digits and spaces")
	v.Positive("price", decimal.Zero)
	v.NonNegative("fees", decimal.NewFromInt(-1))

	if got, want := len(v), 6; got != want {
		t.Fatalf("got %d violations, want %d: %v", got, want, v)
	}

	err := v.Err("cryptocurrency")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Err() = %T, want *ValidationError", err)
	}
	if len(verr.Messages) != 6 {
		t.Errorf("error carries %d messages, want all 6", len(verr.Messages))
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false")
	}
}

func TestViolations_Empty(t *testing.T) {
	var v Violations
	v.Required("name", "BTC")
	v.Length("name", "BTC", 2, 50)
	v.Positive("price", decimal.NewFromInt(1))
	v.NonNegative("fees", decimal.Zero)
	if !v.Empty() {
		t.Errorf("unexpected violations: %v", v)
	}
	if err := v.Err("x"); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		password string
		wantErrs int
	}{
		{"Passw0rd", 0},
		{"Sh0rt", 1},
		{"password1", 1},
		{"PASSWORD1", 1},
		{"Password", 1},
		{"", 4},
	}

	for _, tc := range testCases {
		t.Run(tc.password, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErrs == 0 {
				if err != nil {
					t.Errorf("ValidatePassword(%q) = %v, want nil", tc.password, err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidatePassword(%q) = %v, want *ValidationError", tc.password, err)
			}
			if len(verr.Messages) != tc.wantErrs {
				t.Errorf("ValidatePassword(%q) has %d messages, want %d: %v", tc.password, len(verr.Messages), tc.wantErrs, verr.Messages)
			}
		})
	}
}
