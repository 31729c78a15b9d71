package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/pit38/pit38"
	"github.com/pit38/pit38/renderer"
)

// lotsCmd prints the purchase lots still open after FIFO matching.
type lotsCmd struct {
	year int
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the purchase lots still open after matching" }
func (*lotsCmd) Usage() string {
	return `p38 lots [-year <year>]

  Matches the whole history with FIFO and prints the lots left open at
  the end, the carry-over position for next year's run.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().Year()-1, "Tax year whose rates to load")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	records, err := LoadRecords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	conv, err := NewConverter(records, c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading exchange rates: %v\n", err)
		return subcommands.ExitFailure
	}

	warns := &pit38.Warnings{}
	txs := pit38.Classifier{}.ClassifyAll(records, warns)
	_, lots, err := pit38.MatchFIFO(txs, conv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching lots: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RemainingLotsMarkdown(lots))
	return subcommands.ExitSuccess
}
