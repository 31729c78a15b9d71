package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/pit38/pit38"
	"github.com/pit38/pit38/renderer"
)

// txCmd lists the classified transaction history.
type txCmd struct {
	year     int
	category string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the classified transaction history" }
func (*txCmd) Usage() string {
	return `p38 tx [-year <year>] [-category <category>]

  Loads the transaction history and prints each record with its derived
  settlement date and category. Useful to check the classification before
  computing a report.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Only rows settling in this year (0 for all)")
	f.StringVar(&c.category, "category", "", "Only rows of this category, e.g. sale, dividend-equity (empty for all)")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	records, err := LoadRecords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	warns := &pit38.Warnings{}
	txs := pit38.Classifier{}.ClassifyAll(records, warns)

	filtered := make([]pit38.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		if c.year != 0 && tx.SettlementDate.Year() != c.year {
			continue
		}
		if c.category != "" && tx.Category.String() != c.category {
			continue
		}
		filtered = append(filtered, tx)
	}

	printMarkdown(renderer.TransactionsMarkdown(filtered))
	return subcommands.ExitSuccess
}
