package fidelity

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pit38/pit38"
	"github.com/pit38/pit38/date"
)

// symbolColumns are tried in order for the optional manifest symbol.
var symbolColumns = []string{"Symbol", "Ticker", "Security Symbol"}

// LoadManifest reads one or more tab-separated stock-sales summaries into
// lot entries. Fidelity exports the same lot in overlapping summaries, so
// identical rows deduplicate silently here, unlike the history loader.
func LoadManifest(paths ...string) ([]pit38.LotEntry, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no stock-sales files")
	}
	var entries []pit38.LotEntry
	seen := make(map[string]bool)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		rows, err := parseManifest(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		for _, e := range rows {
			key := entryKey(e)
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, e)
		}
	}
	log.Printf("loaded %d lot entries from %d file(s)", len(entries), len(paths))
	return entries, nil
}

func entryKey(e pit38.LotEntry) string {
	return strings.Join([]string{e.SaleDate.String(), e.AcquiredOn.String(), e.Quantity.String(),
		e.CostBasisUSD.String(), e.Source.String(), e.Symbol}, "|")
}

// parseManifest reads one tab-separated summary.
func parseManifest(r io.Reader) ([]pit38.LotEntry, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := columnIndex(header)
	for _, name := range []string{"Date sold or transferred", "Date acquired", "Quantity"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
	}

	var entries []pit38.LotEntry
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		entry := pit38.LotEntry{
			Source: pit38.ParsePlanSource(cell("Stock source")),
		}
		if on, err := time.Parse(tradeDateFormat, cell("Date sold or transferred")); err == nil {
			entry.SaleDate = date.New(on.Date())
		}
		if on, err := time.Parse(tradeDateFormat, cell("Date acquired")); err == nil {
			entry.AcquiredOn = date.New(on.Date())
		}
		if qty, ok := parseNumber(cell("Quantity")); ok {
			entry.Quantity = pit38.Q(qty)
		}
		if basis, ok := parseMoney(cell("Cost basis")); ok {
			entry.CostBasisUSD = pit38.M(basis, "USD")
			entry.HasCostBasis = true
		}
		for _, name := range symbolColumns {
			if s := cell(name); s != "" && s != "-" {
				entry.Symbol = s
				break
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
