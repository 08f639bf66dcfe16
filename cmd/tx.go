package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/etnz/cryptofolio/service"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type txCmd struct {
	login     string
	portfolio string
	kind      string
	symbol    string
	amount    decimal.Decimal
	costs     decimal.Decimal
	fees      decimal.Decimal
	memo      string
	date      time.Time
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record a transaction" }
func (*txCmd) Usage() string {
	return `cfo tx -u <user> [-p <portfolio>] -type <type> -symbol <symbol> -amount <amount> [-costs <costs>] [-fees <fees>] [-m <memo>] [-d <date>]

  Records a transaction and applies it to the watchlist of the portfolio.
  Types are BUY, SELL, TRANSFER_DEPOSIT and TRANSFER_WITHDRAWAL. A SELL records
  its proceeds at the current price as its profit.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID. Defaults to the only portfolio of the user.")
	f.StringVar(&c.kind, "type", "BUY", "Transaction type.")
	f.StringVar(&c.symbol, "symbol", "", "Cryptocurrency symbol.")
	f.Var(decimalValue{&c.amount}, "amount", "Traded quantity.")
	f.Var(decimalValue{&c.costs}, "costs", "Money spent for the amount.")
	f.Var(decimalValue{&c.fees}, "fees", "Fees paid.")
	f.StringVar(&c.memo, "m", "", "Description.")
	f.Var(timeValue{&c.date}, "d", "Date of the transaction. Defaults to now.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := cryptofolio.ParseTransactionType(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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
	tx, err := a.services.Transactions.Add(service.TransactionRequest{
		PortfolioID: p.ID(),
		Symbol:      c.symbol,
		Type:        kind,
		Amount:      c.amount,
		Costs:       c.costs,
		Fees:        c.fees,
		Description: c.memo,
		CreatedAt:   c.date,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "%s (%s)\n", renderer.Transaction(tx, a.currency()), tx.ID())
	return subcommands.ExitSuccess
}

type txsCmd struct {
	login     string
	portfolio string
	symbol    string
}

func (*txsCmd) Name() string     { return "txs" }
func (*txsCmd) Synopsis() string { return "list the transactions of a portfolio" }
func (*txsCmd) Usage() string {
	return `cfo txs -u <user> [-p <portfolio>] [-symbol <symbol>]

  Lists the transactions of a portfolio with their profit and loss at the
  current prices.
`
}

func (c *txsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID. Defaults to the only portfolio of the user.")
	f.StringVar(&c.symbol, "symbol", "", "Only list the transactions on this symbol.")
}

func (c *txsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	p, err := a.portfolio(c.login, c.portfolio)
	if err != nil {
		return fail(err)
	}
	txs := a.services.Transactions.GetByPortfolio(p.ID())
	if c.symbol != "" {
		accept := cryptofolio.BySymbol(c.symbol)
		var selected []*cryptofolio.Transaction
		for _, tx := range txs {
			if accept(tx) {
				selected = append(selected, tx)
			}
		}
		txs = selected
	}
	printMarkdown(renderer.TransactionsMarkdown(txs, a.prices(), a.currency()))
	return subcommands.ExitSuccess
}

type txEditCmd struct {
	id     string
	fees   decimal.Decimal
	profit decimal.Decimal
}

func (*txEditCmd) Name() string     { return "tx-edit" }
func (*txEditCmd) Synopsis() string { return "change the fees or the profit of a transaction" }
func (*txEditCmd) Usage() string {
	return `cfo tx-edit -id <transaction id> [-fees <fees>] [-profit <profit>]

  Changes the fees or the recorded profit of a transaction. Other fields are immutable.
`
}

func (c *txEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction ID.")
	f.Var(decimalValue{&c.fees}, "fees", "New fees.")
	f.Var(decimalValue{&c.profit}, "profit", "New recorded profit.")
}

func (c *txEditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if !set["fees"] && !set["profit"] {
		fmt.Fprintln(os.Stderr, "Error: -fees or -profit is required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	tx, err := a.services.Transactions.GetByID(c.id)
	if err != nil {
		return fail(err)
	}
	if set["fees"] {
		if tx, err = a.services.Transactions.UpdateFees(c.id, c.fees); err != nil {
			return fail(err)
		}
	}
	if set["profit"] {
		if tx, err = a.services.Transactions.UpdateProfit(c.id, c.profit); err != nil {
			return fail(err)
		}
	}
	fmt.Fprintf(stdout, "Transaction %s: fees %s, profit %s\n", tx.ID(),
		renderer.Money(tx.Fees(), a.currency()), renderer.Money(tx.Profit(), a.currency()))
	return subcommands.ExitSuccess
}

type txRmCmd struct {
	id string
}

func (*txRmCmd) Name() string     { return "tx-rm" }
func (*txRmCmd) Synopsis() string { return "remove a transaction" }
func (*txRmCmd) Usage() string {
	return `cfo tx-rm -id <transaction id>

  Removes a transaction and reverts its effect on the watchlist of its portfolio.
`
}

func (c *txRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction ID.")
}

func (c *txRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if err := a.services.Transactions.Remove(c.id); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Removed transaction %s\n", c.id)
	return subcommands.ExitSuccess
}

type pnlCmd struct {
	login     string
	portfolio string
	id        string
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "compute the profit and loss" }
func (*pnlCmd) Usage() string {
	return `cfo pnl -u <user> [-p <portfolio>]
cfo pnl -id <transaction id>

  Computes the profit and loss of a portfolio per cryptocurrency, or of a single
  transaction, at the current prices.
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.login, "u", "", "Owner username or email.")
	f.StringVar(&c.portfolio, "p", "", "Portfolio name or ID. Defaults to the only portfolio of the user.")
	f.StringVar(&c.id, "id", "", "Transaction ID.")
}

func (c *pnlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if c.id != "" {
		pnl, err := a.services.Transactions.CalculatePnL(c.id)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, renderer.SignedMoney(pnl, a.currency()))
		return subcommands.ExitSuccess
	}

	p, err := a.portfolio(c.login, c.portfolio)
	if err != nil {
		return fail(err)
	}
	txs := a.services.Transactions.GetByPortfolio(p.ID())
	printMarkdown(renderer.PnLMarkdown(p, txs, a.prices(), a.currency()))
	return subcommands.ExitSuccess
}
