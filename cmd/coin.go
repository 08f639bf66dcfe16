package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type coinAddCmd struct {
	symbol string
	name   string
	price  decimal.Decimal
}

func (*coinAddCmd) Name() string     { return "coin-add" }
func (*coinAddCmd) Synopsis() string { return "register a cryptocurrency manually" }
func (*coinAddCmd) Usage() string {
	return `cfo coin-add -symbol <symbol> -name <name> -price <price>

  Registers a cryptocurrency with its current price, without the price feed.
`
}

func (c *coinAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Cryptocurrency symbol.")
	f.StringVar(&c.name, "name", "", "Cryptocurrency name.")
	f.Var(decimalValue{&c.price}, "price", "Current price in the quote currency.")
}

func (c *coinAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	coin, err := a.services.Cryptocurrencies.Add(c.symbol, c.name, c.price)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Registered %s at %s\n", coin, renderer.Price(coin.Price(), a.currency()))
	return subcommands.ExitSuccess
}

type coinsCmd struct {
	remote bool
}

func (*coinsCmd) Name() string     { return "coins" }
func (*coinsCmd) Synopsis() string { return "list cryptocurrencies" }
func (*coinsCmd) Usage() string {
	return `cfo coins [-remote]

  Lists the known cryptocurrencies, or the ones listed by the price feed with
  -remote. When the feed is unavailable, the known ones are listed instead.
`
}

func (c *coinsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.remote, "remote", false, "List the cryptocurrencies of the price feed.")
}

func (c *coinsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	list := a.services.Cryptocurrencies.GetAll()
	if c.remote {
		list = a.services.Cryptocurrencies.List(ctx)
	}
	printMarkdown(renderer.CryptocurrenciesMarkdown(list, a.currency()))
	return subcommands.ExitSuccess
}

type coinRmCmd struct {
	symbol string
}

func (*coinRmCmd) Name() string     { return "coin-rm" }
func (*coinRmCmd) Synopsis() string { return "forget a cryptocurrency" }
func (*coinRmCmd) Usage() string {
	return `cfo coin-rm -symbol <symbol>

  Forgets a cryptocurrency. Watchlists and transactions keep their own copy.
`
}

func (c *coinRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Cryptocurrency symbol.")
}

func (c *coinRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if _, err := a.services.Cryptocurrencies.Remove(c.symbol); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Removed %s\n", cryptofolio.CanonicalSymbol(c.symbol))
	return subcommands.ExitSuccess
}

type syncCmd struct {
	symbol string
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "update prices from the price feed" }
func (*syncCmd) Usage() string {
	return `cfo sync [-symbol <symbol>]

  Updates the price of a cryptocurrency from the price feed, registering it if
  needed. Without -symbol, every known cryptocurrency is updated, or none if one
  quote fails.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Cryptocurrency symbol. Defaults to all known ones.")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	var updated []*cryptofolio.Cryptocurrency
	if c.symbol != "" {
		coin, err := a.services.Cryptocurrencies.SyncPrice(ctx, c.symbol)
		if err != nil {
			return fail(err)
		}
		updated = append(updated, coin)
	} else {
		if updated, err = a.services.Cryptocurrencies.SyncAll(ctx); err != nil {
			return fail(err)
		}
	}
	printMarkdown(renderer.CryptocurrenciesMarkdown(updated, a.currency()))
	return subcommands.ExitSuccess
}

type candlesCmd struct {
	symbol   string
	interval string
	count    int
}

func (*candlesCmd) Name() string     { return "candles" }
func (*candlesCmd) Synopsis() string { return "show the OHLC candles of a cryptocurrency" }
func (*candlesCmd) Usage() string {
	return "cfo candles -symbol <symbol> [-interval daily] [-count 30]\n"
}

func (c *candlesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Cryptocurrency symbol.")
	f.StringVar(&c.interval, "interval", "daily", "Candle interval (hourly, daily, weekly, monthly, yearly).")
	f.IntVar(&c.count, "count", 30, "Number of candles.")
}

func (c *candlesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.count <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -symbol and a positive -count are required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	candles, err := a.services.Cryptocurrencies.Candles(ctx, c.symbol, c.interval, c.count)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.CandlesMarkdown(c.symbol, c.interval, candles, a.currency()))
	return subcommands.ExitSuccess
}
