package cryptofolio

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPortfolios is the number of portfolios a user can own.
const MaxPortfolios = 10

// User is a registered account.
//
// The password hash is set once at construction and never checked against the
// password policy: ValidatePassword applies to sign-up input only.
type User struct {
	id           string
	username     string
	email        string
	passwordHash string
	createdAt    time.Time
	portfolios   []string // portfolio ids, insertion order
}

// NewUser returns a new user, or a *ValidationError listing every violation.
// The email is stored trimmed and in lower case.
func NewUser(username, email, passwordHash string) (*User, error) {
	return newUser(uuid.NewString(), username, email, passwordHash, time.Now(), nil)
}

func newUser(id, username, email, passwordHash string, createdAt time.Time, portfolios []string) (*User, error) {
	u := &User{
		id:           id,
		username:     strings.TrimSpace(username),
		email:        CanonicalEmail(email),
		passwordHash: passwordHash,
		createdAt:    createdAt.UTC(),
		portfolios:   append([]string{}, portfolios...),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// CanonicalEmail returns the form under which an email is stored and looked up.
func CanonicalEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func checkUsername(v *Violations, username string) {
	if v.Required("username", username) {
		v.Length("username", username, 4, 24)
		v.Pattern("username", username, identifier, "letters, digits and underscores")
	}
}

// ValidateSignUp checks the input of a sign-up: the username, the email and
// the password policy. Every violation is reported in one *ValidationError.
func ValidateSignUp(username, email, password string) error {
	var v Violations
	checkUsername(&v, strings.TrimSpace(username))
	checkEmail(&v, CanonicalEmail(email))
	checkPassword(&v, password)
	return v.Err("user")
}

func checkEmail(v *Violations, address string) {
	if v.Required("email", address) {
		v.Pattern("email", address, email, "a valid address (name@domain.tld)")
	}
}

// Validate checks every invariant and returns a *ValidationError if any fails.
func (u *User) Validate() error {
	var v Violations
	checkUUID(&v, "id", u.id)
	checkUsername(&v, u.username)
	checkEmail(&v, u.email)
	v.Required("password hash", u.passwordHash)
	v.Check(!u.createdAt.IsZero(), "creation date is required")
	if len(u.portfolios) > MaxPortfolios {
		v.Add("a user owns at most %d portfolios, got %d", MaxPortfolios, len(u.portfolios))
	}
	return v.Err("user")
}

// IsValid reports whether u satisfies all its invariants.
func (u *User) IsValid() bool { return u != nil && u.Validate() == nil }

func (u *User) Key() string                 { return u.id }
func (u *User) ID() string                  { return u.id }
func (u *User) Username() string            { return u.username }
func (u *User) Email() string               { return u.email }
func (u *User) PasswordHash() string        { return u.passwordHash }
func (u *User) CreatedAt() time.Time        { return u.createdAt }
func (u *User) Portfolios() []string        { return slices.Clone(u.portfolios) }
func (u *User) HasPortfolio(id string) bool { return slices.Contains(u.portfolios, id) }

// Clone returns an independent copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.portfolios = slices.Clone(u.portfolios)
	return &cp
}

// SetEmail changes the email. On failure u is left unchanged.
func (u *User) SetEmail(address string) error {
	address = CanonicalEmail(address)
	var v Violations
	checkEmail(&v, address)
	if err := v.Err("user"); err != nil {
		return err
	}
	u.email = address
	return nil
}

// AddPortfolio records a portfolio id. Adding a known id does nothing; adding
// one beyond MaxPortfolios is a *ValidationError and leaves u unchanged.
func (u *User) AddPortfolio(id string) error {
	if u.HasPortfolio(id) {
		return nil
	}
	var v Violations
	v.Required("portfolio id", id)
	if len(u.portfolios) >= MaxPortfolios {
		v.Add("a user owns at most %d portfolios", MaxPortfolios)
	}
	if err := v.Err("user"); err != nil {
		return err
	}
	u.portfolios = append(u.portfolios, id)
	return nil
}

// RemovePortfolio forgets a portfolio id and reports whether it was recorded.
func (u *User) RemovePortfolio(id string) bool {
	i := slices.Index(u.portfolios, id)
	if i < 0 {
		return false
	}
	u.portfolios = slices.Delete(u.portfolios, i, i+1)
	return true
}

// MarshalJSON implements the json.Marshaler interface for User.
func (u *User) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", u.id)
	w.Append("username", u.username)
	w.Append("email", u.email)
	w.Append("passwordHash", u.passwordHash)
	w.Append("createdAt", formatTimestamp(u.createdAt))
	w.Append("portfolios", u.portfolios)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for User.
func (u *User) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           string   `json:"id"`
		Username     string   `json:"username"`
		Email        string   `json:"email"`
		PasswordHash string   `json:"passwordHash"`
		CreatedAt    string   `json:"createdAt"`
		Portfolios   []string `json:"portfolios"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	createdAt, err := parseTimestamp("createdAt", temp.CreatedAt)
	if err != nil {
		return err
	}
	n, err := newUser(temp.ID, temp.Username, temp.Email, temp.PasswordHash, createdAt, temp.Portfolios)
	if err != nil {
		return err
	}
	*u = *n
	return nil
}
