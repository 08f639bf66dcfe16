package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

// passwordEnv is read when -password is not set.
const passwordEnv = "CRYPTOFOLIO_PASSWORD"

func password(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(passwordEnv)
}

type signupCmd struct {
	username string
	email    string
	password string
}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "register a new user" }
func (*signupCmd) Usage() string {
	return `cfo signup -u <username> -email <email> [-password <password>]

  Registers a new user. The password defaults to $CRYPTOFOLIO_PASSWORD and must
  hold at least 8 characters, with an upper case letter, a lower case letter and
  a digit.
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username: 4 to 24 letters, digits or underscores.")
	f.StringVar(&c.email, "email", "", "Email address.")
	f.StringVar(&c.password, "password", "", "Password.")
}

func (c *signupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	u, err := a.services.Users.SignUp(c.username, c.email, password(c.password))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Welcome %s, your ID is %s\n", u.Username(), u.ID())
	return subcommands.ExitSuccess
}

type loginCmd struct {
	login    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "check the credentials of a user" }
func (*loginCmd) Usage() string {
	return `cfo login -u <username|email> [-password <password>]

  Checks the credentials of a user. The password defaults to $CRYPTOFOLIO_PASSWORD.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Username or email.")
	f.StringVar(&c.password, "password", "", "Password.")
}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	u, err := a.services.Users.Login(c.login, password(c.password))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Logged in as %s <%s>\n", u.Username(), u.Email())
	return subcommands.ExitSuccess
}

type usersCmd struct{}

func (*usersCmd) Name() string             { return "users" }
func (*usersCmd) Synopsis() string         { return "list the registered users" }
func (*usersCmd) Usage() string            { return "cfo users\n" }
func (*usersCmd) SetFlags(f *flag.FlagSet) {}

func (c *usersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	printMarkdown(renderer.UsersMarkdown(a.services.Users.GetAll()))
	return subcommands.ExitSuccess
}

type userEmailCmd struct {
	login string
	email string
}

func (*userEmailCmd) Name() string     { return "user-email" }
func (*userEmailCmd) Synopsis() string { return "change the email of a user" }
func (*userEmailCmd) Usage() string {
	return "cfo user-email -u <username|email> -email <new email>\n"
}

func (c *userEmailCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Username or email.")
	f.StringVar(&c.email, "email", "", "New email address.")
}

func (c *userEmailCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	u, err := a.user(c.login)
	if err != nil {
		return fail(err)
	}
	if u, err = a.services.Users.UpdateEmail(u.ID(), c.email); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "%s now uses %s\n", u.Username(), u.Email())
	return subcommands.ExitSuccess
}

type userRmCmd struct {
	login string
}

func (*userRmCmd) Name() string     { return "user-rm" }
func (*userRmCmd) Synopsis() string { return "remove a user with their portfolios" }
func (*userRmCmd) Usage() string {
	return `cfo user-rm -u <username|email>

  Removes a user, their portfolios and the transactions of those portfolios.
`
}

func (c *userRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Username or email.")
}

func (c *userRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	u, err := a.user(c.login)
	if err != nil {
		return fail(err)
	}
	if err := a.services.Users.Remove(u.ID()); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Removed %s and %d portfolio(s)\n", u.Username(), len(u.Portfolios()))
	return subcommands.ExitSuccess
}
