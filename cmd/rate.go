package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/pit38/pit38"
	"github.com/pit38/pit38/date"
	"github.com/pit38/pit38/nbp"
)

// rateCmd shows the exchange rate that applies to an event date.
type rateCmd struct {
	day string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show the NBP rate applying to a date" }
func (*rateCmd) Usage() string {
	return `p38 rate [-d <date>]

  Shows the USD/PLN rate that converts an amount received or incurred on
  the given date: the rate of the last business day strictly before it.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.day, "d", date.Today().String(), "Event date (YYYY-MM-DD)")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	rates, err := nbp.FetchArchives("USD", day.Year())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading exchange rates: %v\n", err)
		return subcommands.ExitFailure
	}

	conv := &pit38.Converter{Rates: rates, Lookback: *lookback}
	ref := conv.ReferenceDate(day)
	rate, on, ok := rates.RateOnOrBefore(ref)
	if !ok {
		fmt.Fprintf(os.Stderr, "No rate published on or before %s\n", ref)
		return subcommands.ExitFailure
	}

	fmt.Printf("event %s: reference %s, rate %.4f (published %s)\n", day, ref, rate, on)
	return subcommands.ExitSuccess
}
