// Package nbp loads the National Bank of Poland table A average exchange
// rates, from the annual CSV archives and from the api.nbp.pl web API.
package nbp

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pit38/pit38/date"
	"golang.org/x/text/encoding/charmap"
)

// archiveURL is the annual table A archive. One file per year, cp1250
// encoded, semicolon separated, one column per currency.
const archiveURL = "https://static.nbp.pl/dane/kursy/Archiwum/archiwum_tab_a_%d.csv"

// Table is the USD/PLN rate series assembled from one or more sources.
// It satisfies the converter's rate-source contract.
type Table struct {
	rates date.History[float64]
}

// RateOnOrBefore returns the rate published on day d or the most recent
// one before it, with its actual publication date.
func (t *Table) RateOnOrBefore(d date.Date) (float64, date.Date, bool) {
	on, rate, ok := t.rates.AsOf(d)
	return rate, on, ok
}

// Append records the rate published on a day, overwriting any previous
// value for that day.
func (t *Table) Append(on date.Date, rate float64) { t.rates.Append(on, rate) }

// Len returns the number of published rates in the table.
func (t *Table) Len() int { return t.rates.Len() }

// FetchArchives downloads and merges the annual archives covering the
// given years plus the year before the earliest one: January events
// reference rates published the preceding December.
func FetchArchives(currency string, years ...int) (*Table, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("no years to fetch")
	}
	min, max := years[0], years[0]
	for _, y := range years {
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}

	t := &Table{}
	client := daily()
	for y := min - 1; y <= max; y++ {
		addr := fmt.Sprintf(archiveURL, y)
		body, err := wget(client, addr)
		if err != nil {
			return nil, fmt.Errorf("fetching NBP archive for %d: %w", y, err)
		}
		if err := parseArchive(strings.NewReader(string(body)), currency, t); err != nil {
			return nil, fmt.Errorf("parsing NBP archive for %d: %w", y, err)
		}
	}
	return t, nil
}

// parseArchive reads one annual archive into the table. The header row
// names each currency column as "1USD", "100HUF" and so on; data rows
// start with a YYYYMMDD date, everything else (footers, column numbering)
// is skipped.
func parseArchive(r io.Reader, currency string, t *Table) error {
	reader := csv.NewReader(charmap.Windows1250.NewDecoder().Reader(r))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("empty archive")
	}

	col := -1
	for i, name := range records[0] {
		if strings.HasSuffix(strings.TrimSpace(name), currency) {
			col = i
			break
		}
	}
	if col < 0 {
		return fmt.Errorf("no %s column in archive header %v", currency, records[0])
	}

	for _, row := range records[1:] {
		if len(row) <= col {
			continue
		}
		on, err := time.Parse("20060102", strings.TrimSpace(row[0]))
		if err != nil {
			continue // footer or annotation row
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		rate, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
		if err != nil {
			return fmt.Errorf("invalid rate %q on %s: %w", cell, row[0], err)
		}
		t.Append(date.New(on.Date()), rate)
	}
	return nil
}
