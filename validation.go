package cryptofolio

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Violations accumulates human-readable invariant violations.
//
// Each check appends a message when it fails and reports whether the value
// passed, so callers can skip dependent checks. The zero value is ready to use.
type Violations []string

// Add records a violation.
func (v *Violations) Add(format string, args ...any) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

// Check records msg when ok is false.
func (v *Violations) Check(ok bool, msg string) bool {
	if !ok {
		*v = append(*v, msg)
	}
	return ok
}

// Required checks that value is not empty.
func (v *Violations) Required(field, value string) bool {
	return v.Check(value != "", field+" is required")
}

// Length checks that value has between min and max characters (inclusive).
func (v *Violations) Length(field, value string, min, max int) bool {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		v.Add("%s must be between %d and %d characters, got %d", field, min, max, n)
		return false
	}
	return true
}

// MaxLength checks that value has at most max characters.
func (v *Violations) MaxLength(field, value string, max int) bool {
	n := utf8.RuneCountInString(value)
	if n > max {
		v.Add("%s must be at most %d characters, got %d", field, max, n)
		return false
	}
	return true
}

// Pattern checks that value matches re. desc describes the allowed characters.
func (v *Violations) Pattern(field, value string, re *regexp.Regexp, desc string) bool {
	if !re.MatchString(value) {
		v.Add("%s must contain only %s", field, desc)
		return false
	}
	return true
}

// Positive checks that d > 0.
func (v *Violations) Positive(field string, d decimal.Decimal) bool {
	if !d.IsPositive() {
		v.Add("%s must be positive, got %s", field, d)
		return false
	}
	return true
}

// NonNegative checks that d >= 0.
func (v *Violations) NonNegative(field string, d decimal.Decimal) bool {
	if d.IsNegative() {
		v.Add("%s must not be negative, got %s", field, d)
		return false
	}
	return true
}

// Empty reports whether no violation was recorded.
func (v Violations) Empty() bool { return len(v) == 0 }

// Err returns nil when no violation was recorded, otherwise a *ValidationError
// carrying all of them.
func (v Violations) Err(entity string) error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Messages: append([]string(nil), v...)}
}

var (
	alnumSpace = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	identifier = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	email      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	upper      = regexp.MustCompile(`[A-Z]`)
	lower      = regexp.MustCompile(`[a-z]`)
	digit      = regexp.MustCompile(`[0-9]`)
)

// ValidatePassword enforces the sign-up password policy: at least 8
// characters with an upper case letter, a lower case letter and a digit.
//
// The policy applies to user input only; stored hashes are never checked.
func ValidatePassword(password string) error {
	var v Violations
	checkPassword(&v, password)
	return v.Err("password")
}

func checkPassword(v *Violations, password string) {
	v.Check(utf8.RuneCountInString(password) >= 8, "password must be at least 8 characters")
	v.Check(upper.MatchString(password), "password must contain an upper case letter")
	v.Check(lower.MatchString(password), "password must contain a lower case letter")
	v.Check(digit.MatchString(password), "password must contain a digit")
}
