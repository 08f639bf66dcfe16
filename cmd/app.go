// Package cmd implements the CLI application to manage crypto portfolios.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/config"
	"github.com/etnz/cryptofolio/pricefeed"
	"github.com/etnz/cryptofolio/repository"
	"github.com/etnz/cryptofolio/service"
	"github.com/google/subcommands"
)

type group struct {
	name     string
	commands []subcommands.Command
}

var groups = []group{
	{"users", []subcommands.Command{&signupCmd{}, &loginCmd{}, &usersCmd{}, &userEmailCmd{}, &userRmCmd{}}},
	{"portfolios", []subcommands.Command{&portfolioAddCmd{}, &portfoliosCmd{}, &portfolioRenameCmd{}, &portfolioRmCmd{}, &watchCmd{}, &unwatchCmd{}, &valueCmd{}}},
	{"cryptocurrencies", []subcommands.Command{&coinAddCmd{}, &coinsCmd{}, &coinRmCmd{}, &syncCmd{}, &candlesCmd{}}},
	{"transactions", []subcommands.Command{&txCmd{}, &txsCmd{}, &txEditCmd{}, &txRmCmd{}, &pnlCmd{}}},
	{"documentation", []subcommands.Command{&topicCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file. Defaults to cryptofolio.yaml in the working directory or the data directory.")
var dataDir = flag.String("data-dir", "", "Directory of the JSON collections. Overrides the data_dir setting.")
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal.")

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// app is what a command works with: the settings and the services on top of
// the data directory.
type app struct {
	cfg      *config.Config
	repos    *repository.Factory
	services *service.Services
	closeLog func() error
}

// openApp loads the settings and opens the data directory.
func openApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	closeLog, err := setupLog(cfg)
	if err != nil {
		return nil, err
	}

	repos, err := repository.NewFactory(cfg.DataDir)
	if err != nil {
		closeLog()
		return nil, err
	}
	feed := pricefeed.New(pricefeed.Options{
		BaseURL:       cfg.PriceFeed.BaseURL,
		APIKey:        cfg.PriceFeed.APIKey,
		QuoteCurrency: cfg.QuoteCurrency,
		CacheTTL:      cfg.PriceFeed.CacheTTL,
		Timeout:       cfg.PriceFeed.Timeout,
	})
	return &app{
		cfg:      cfg,
		repos:    repos,
		services: service.New(repos, feed),
		closeLog: closeLog,
	}, nil
}

// Close saves every collection and closes the log output.
func (a *app) Close() error {
	err := a.repos.Commit()
	if err != nil {
		log.Printf("cannot save the collections: %v", err)
	}
	return errors.Join(err, a.closeLog())
}

// currency is the quote currency of the prices.
func (a *app) currency() string { return a.cfg.QuoteCurrency }

// prices are the known prices of the cryptocurrencies.
func (a *app) prices() cryptofolio.PriceMap {
	return cryptofolio.PricesOf(a.services.Cryptocurrencies.GetAll())
}

// user finds a user by username or by email.
func (a *app) user(login string) (*cryptofolio.User, error) {
	if login == "" {
		return nil, errors.New("a user is required, use -u")
	}
	u, err := a.services.Users.GetByUsername(login)
	if errors.Is(err, cryptofolio.ErrNotFound) && strings.Contains(login, "@") {
		return a.services.Users.GetByEmail(login)
	}
	return u, err
}

// portfolio finds a portfolio of a user by name or by ID. If name is empty and
// the user owns a single portfolio, it is that one.
func (a *app) portfolio(login, name string) (*cryptofolio.Portfolio, error) {
	u, err := a.user(login)
	if err != nil {
		return nil, err
	}
	owned := a.services.Portfolios.GetByUser(u.ID())
	if name == "" {
		if len(owned) == 1 {
			return owned[0], nil
		}
		return nil, fmt.Errorf("%s owns %d portfolios, use -p to select one", u.Username(), len(owned))
	}
	for _, p := range owned {
		if p.ID() == name || strings.EqualFold(p.Name(), name) {
			return p, nil
		}
	}
	return nil, &cryptofolio.NotFoundError{Kind: "portfolio", Key: name}
}

// printMarkdown renders md for the terminal, or prints it as is with -plain.
func printMarkdown(md string) {
	if *plain {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// fail prints err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
