package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type portfolioAddCmd struct {
	login string
	name  string
}

func (*portfolioAddCmd) Name() string     { return "portfolio-add" }
func (*portfolioAddCmd) Synopsis() string { return "create a portfolio" }
func (*portfolioAddCmd) Usage() string {
	return `cfo portfolio-add -u <user> -name <name>

  Creates an empty portfolio. A user owns at most 10 portfolios, with distinct names.
`
}

func (c *portfolioAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.name, "name", "", "Portfolio name: letters, digits or underscores.")
}

func (c *portfolioAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	u, err := a.user(c.login)
	if err != nil {
		return fail(err)
	}
	p, err := a.services.Portfolios.Add(u.ID(), c.name)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Created portfolio %s (%s)\n", p.Name(), p.ID())
	return subcommands.ExitSuccess
}

type portfoliosCmd struct {
	login string
}

func (*portfoliosCmd) Name() string     { return "portfolios" }
func (*portfoliosCmd) Synopsis() string { return "list portfolios" }
func (*portfoliosCmd) Usage() string {
	return `cfo portfolios [-u <user>]

  Lists the portfolios of a user, or every portfolio without -u.
`
}

func (c *portfoliosCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
}

func (c *portfoliosCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	list := a.services.Portfolios.GetAll()
	if c.login != "" {
		u, err := a.user(c.login)
		if err != nil {
			return fail(err)
		}
		list = a.services.Portfolios.GetByUser(u.ID())
	}
	printMarkdown(renderer.PortfoliosMarkdown(list, a.currency()))
	return subcommands.ExitSuccess
}

type portfolioRenameCmd struct {
	login     string
	portfolio string
	name      string
}

func (*portfolioRenameCmd) Name() string     { return "portfolio-rename" }
func (*portfolioRenameCmd) Synopsis() string { return "rename a portfolio" }
func (*portfolioRenameCmd) Usage() string {
	return "cfo portfolio-rename -u <user> [-p <portfolio>] -name <new name>\n"
}

func (c *portfolioRenameCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID. Defaults to the only portfolio of the user.")
	f.StringVar(&c.name, "name", "", "New name.")
}

func (c *portfolioRenameCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	p, err := a.portfolio(c.login, c.portfolio)
	if err != nil {
		return fail(err)
	}
	if p, err = a.services.Portfolios.Rename(p.ID(), c.name); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Renamed portfolio %s to %s\n", p.ID(), p.Name())
	return subcommands.ExitSuccess
}

type portfolioRmCmd struct {
	login     string
	portfolio string
}

func (*portfolioRmCmd) Name() string     { return "portfolio-rm" }
func (*portfolioRmCmd) Synopsis() string { return "remove a portfolio and its transactions" }
func (*portfolioRmCmd) Usage() string {
	return "cfo portfolio-rm -u <user> -p <portfolio>\n"
}

func (c *portfolioRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID.")
}

func (c *portfolioRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p is required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	p, err := a.portfolio(c.login, c.portfolio)
	if err != nil {
		return fail(err)
	}
	if err := a.services.Portfolios.Remove(p.ID()); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Removed portfolio %s and %d transaction(s)\n", p.Name(), len(p.Transactions()))
	return subcommands.ExitSuccess
}

type watchCmd struct {
	login     string
	portfolio string
	symbol    string
	count     decimal.Decimal
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "add a cryptocurrency to the watchlist of a portfolio" }
func (*watchCmd) Usage() string {
	return `cfo watch -u <user> [-p <portfolio>] -symbol <symbol> -count <count>

  Adds count units of a known cryptocurrency to the watchlist, at its current
  price. Use coin-add or sync first to make the cryptocurrency known.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID. Defaults to the only portfolio of the user.")
	f.StringVar(&c.symbol, "symbol", "", "Cryptocurrency symbol.")
	c.count = decimal.NewFromInt(1)
	f.Var(decimalValue{&c.count}, "count", "Number of units held.")
}

func (c *watchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	p, err := a.portfolio(c.login, c.portfolio)
	if err != nil {
		return fail(err)
	}
	if p, err = a.services.Portfolios.AddCryptocurrency(p.ID(), c.symbol, c.count); err != nil {
		return fail(err)
	}
	printMarkdown(renderer.PortfolioMarkdown(p, a.currency()))
	return subcommands.ExitSuccess
}

type unwatchCmd struct {
	login     string
	portfolio string
	symbol    string
}

func (*unwatchCmd) Name() string     { return "unwatch" }
func (*unwatchCmd) Synopsis() string { return "remove a cryptocurrency from the watchlist of a portfolio" }
func (*unwatchCmd) Usage() string {
	return "cfo unwatch -u <user> [-p <portfolio>] -symbol <symbol>\n"
}

func (c *unwatchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID. Defaults to the only portfolio of the user.")
	f.StringVar(&c.symbol, "symbol", "", "Cryptocurrency symbol.")
}

func (c *unwatchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	p, err := a.portfolio(c.login, c.portfolio)
	if err != nil {
		return fail(err)
	}
	removed, err := a.services.Portfolios.RemoveCryptocurrency(p.ID(), c.symbol)
	if err != nil {
		return fail(err)
	}
	if !removed {
		return fail(errors.New(c.symbol + " is not in the watchlist"))
	}
	fmt.Fprintf(stdout, "Removed %s from %s\n", c.symbol, p.Name())
	return subcommands.ExitSuccess
}

type valueCmd struct {
	login     string
	portfolio string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value a portfolio at the current prices" }
func (*valueCmd) Usage() string {
	return `cfo value -u <user> [-p <portfolio>]

  Values the watchlist of a portfolio at the known prices and stores the total.
  Run sync first to refresh the prices.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID. Defaults to the only portfolio of the user.")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	p, err := a.portfolio(c.login, c.portfolio)
	if err != nil {
		return fail(err)
	}
	if _, err := a.services.Portfolios.CalculateTotalValue(p.ID()); err != nil {
		return fail(err)
	}
	if p, err = a.services.Portfolios.GetByID(p.ID()); err != nil {
		return fail(err)
	}
	printMarkdown(renderer.PortfolioMarkdown(p, a.currency()))
	return subcommands.ExitSuccess
}
