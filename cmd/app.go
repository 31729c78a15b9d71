// Package cmd implements the CLI application to compute PIT-38 figures
// from Fidelity stock-plan exports.
package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/pit38/pit38"
	"github.com/pit38/pit38/fidelity"
	"github.com/pit38/pit38/nbp"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&computeCmd{}, "reports")
	c.Register(&lotsCmd{}, "reports")
	c.Register(&txCmd{}, "reports")

	c.Register(&rateCmd{}, "rates")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("dir", ".", "Directory holding the Fidelity exports (Transaction history*.csv, stock-sales*.txt)")
var lookback = flag.Int("lookback", 0, "Calendar-day bound when walking back to the last published rate (0 for the default)")

// LoadRecords discovers and loads the transaction history from the data
// directory.
func LoadRecords() ([]pit38.TransactionRecord, error) {
	history, _, err := fidelity.Discover(*dataDir)
	if err != nil {
		return nil, err
	}
	return fidelity.LoadHistory(history...)
}

// LoadManifest discovers and loads the stock-sales summaries from the
// data directory.
func LoadManifest() ([]pit38.LotEntry, error) {
	_, manifests, err := fidelity.Discover(*dataDir)
	if err != nil {
		return nil, err
	}
	return fidelity.LoadManifest(manifests...)
}

// NewConverter fetches the NBP archives covering the given year and every
// trade year in the records, and wraps them in a converter.
func NewConverter(records []pit38.TransactionRecord, year int) (*pit38.Converter, error) {
	years := map[int]bool{year: true}
	list := []int{year}
	for _, r := range records {
		y := r.TradeDate.Year()
		if y > 0 && !years[y] {
			years[y] = true
			list = append(list, y)
		}
	}
	rates, err := nbp.FetchArchives("USD", list...)
	if err != nil {
		return nil, err
	}
	return &pit38.Converter{Rates: rates, Lookback: *lookback}, nil
}
