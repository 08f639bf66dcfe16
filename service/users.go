package service

import (
	"errors"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/repository"
	"golang.org/x/crypto/bcrypt"
)

// Users manages accounts.
type Users struct {
	repos *repository.Factory
	// Cost is the bcrypt cost of new password hashes.
	Cost int
}

func NewUsers(repos *repository.Factory) *Users {
	return &Users{repos: repos, Cost: bcrypt.DefaultCost}
}

// SignUp registers a new user. The password must satisfy the password policy;
// only its bcrypt hash is stored. A username or an email already registered is
// a *cryptofolio.DuplicateError.
func (s *Users) SignUp(username, email, password string) (*cryptofolio.User, error) {
	if err := cryptofolio.ValidateSignUp(username, email, password); err != nil {
		return nil, err
	}
	if _, err := s.GetByUsername(username); err == nil {
		return nil, &cryptofolio.DuplicateError{Kind: "user", Field: "username", Value: strings.TrimSpace(username)}
	}
	if _, err := s.GetByEmail(email); err == nil {
		return nil, &cryptofolio.DuplicateError{Kind: "user", Field: "email", Value: cryptofolio.CanonicalEmail(email)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return nil, err
	}
	u, err := cryptofolio.NewUser(username, email, string(hash))
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Users.Add(u); err != nil {
		return nil, persist("sign up "+u.Username(), err)
	}
	return u, nil
}

// Login returns the user whose username or email is login, if password
// matches. Any mismatch is ErrInvalidCredentials.
func (s *Users) Login(login, password string) (*cryptofolio.User, error) {
	u, err := s.GetByUsername(login)
	if err != nil {
		u, err = s.GetByEmail(login)
	}
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return u, nil
}

func (s *Users) GetByID(id string) (*cryptofolio.User, error) {
	u, ok := s.repos.Users.FindByID(id)
	if !ok {
		return nil, notFound("user", id)
	}
	return u, nil
}

// GetByUsername looks a user up by username, ignoring case.
func (s *Users) GetByUsername(username string) (*cryptofolio.User, error) {
	username = strings.TrimSpace(username)
	found := s.repos.Users.FindAllFunc(func(u *cryptofolio.User) bool {
		return strings.EqualFold(u.Username(), username)
	})
	if len(found) == 0 {
		return nil, notFound("user", username)
	}
	return found[0], nil
}

// GetByEmail looks a user up by email, ignoring case.
func (s *Users) GetByEmail(email string) (*cryptofolio.User, error) {
	email = cryptofolio.CanonicalEmail(email)
	found := s.repos.Users.FindAllFunc(func(u *cryptofolio.User) bool { return u.Email() == email })
	if len(found) == 0 {
		return nil, notFound("user", email)
	}
	return found[0], nil
}

func (s *Users) GetAll() []*cryptofolio.User { return s.repos.Users.FindAll() }

// UpdateEmail changes the email of a user.
func (s *Users) UpdateEmail(id, email string) (*cryptofolio.User, error) {
	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	u = u.Clone()
	if other, err := s.GetByEmail(email); err == nil && other.ID() != id {
		return nil, &cryptofolio.DuplicateError{Kind: "user", Field: "email", Value: other.Email()}
	}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if _, err := s.repos.Users.Add(u); err != nil {
		return nil, persist("update email of "+u.Username(), err)
	}
	return u, nil
}

// Remove deletes a user along with their portfolios and the transactions of
// those portfolios.
func (s *Users) Remove(id string) error {
	u, err := s.GetByID(id)
	if err != nil {
		return err
	}
	for _, pid := range u.Portfolios() {
		if err := removePortfolio(s.repos, pid); err != nil {
			return persist("remove user "+u.Username(), err)
		}
	}
	if _, err := s.repos.Users.Remove(u); err != nil {
		return persist("remove user "+u.Username(), err)
	}
	return nil
}
