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

// computeCmd holds the flags for the 'compute' subcommand.
type computeCmd struct {
	year   int
	method string
	strict bool
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "compute the PIT-38 figures for a tax year" }
func (*computeCmd) Usage() string {
	return `p38 compute [-year <year>] [-method <method>] [-strict]

  Classifies the transaction history, matches sales to purchase lots,
  converts amounts to PLN at the NBP rate and prints the PIT-38 figures.
`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().Year()-1, "Tax year to compute")
	f.StringVar(&c.method, "method", "fifo", "Lot matching method (fifo, custom)")
	f.BoolVar(&c.strict, "strict", false, "Fail on ambiguous manifest matches instead of taking the first candidate")
}

func (c *computeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	method, err := pit38.ParseMethod(c.method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing method: %v\n", err)
		return subcommands.ExitUsageError
	}

	records, err := LoadRecords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	var manifest []pit38.LotEntry
	if method == pit38.MethodCustom {
		if manifest, err = LoadManifest(); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading stock-sales summaries: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	conv, err := NewConverter(records, c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading exchange rates: %v\n", err)
		return subcommands.ExitFailure
	}

	engine := pit38.Engine{Converter: conv, Strict: c.strict}
	warns := &pit38.Warnings{}
	report, err := engine.Compute(records, manifest, method, c.year, warns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ReportMarkdown(report, warns))
	return subcommands.ExitSuccess
}
