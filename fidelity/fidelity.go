// Package fidelity reads Fidelity stock-plan account exports: the
// transaction history CSVs and the tab-separated stock-sales lot summaries.
package fidelity

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pit38/pit38"
	"github.com/pit38/pit38/date"
)

// tradeDateFormat is the date format of Fidelity exports, e.g. "Mar-18-2024".
const tradeDateFormat = "Jan-02-2006"

// Discover globs a directory for the two export kinds. History files are
// required for any run; manifest files only for custom matching.
func Discover(dir string) (history, manifests []string, err error) {
	history, err = filepath.Glob(filepath.Join(dir, "Transaction history*.csv"))
	if err != nil {
		return nil, nil, err
	}
	manifests, err = filepath.Glob(filepath.Join(dir, "stock-sales*.txt"))
	if err != nil {
		return nil, nil, err
	}
	log.Printf("found %d transaction history file(s) and %d stock-sales file(s) in %s", len(history), len(manifests), dir)
	return history, manifests, nil
}

// footerRE tags the disclaimer rows Fidelity appends after the data.
var footerRE = regexp.MustCompile(`(?i)Unless noted otherwise|Stock plan account history as of`)

// moneyCleanRE strips the decoration around dollar amounts: "$1,234.50 ".
var moneyCleanRE = regexp.MustCompile(`[\s$,()]`)

// LoadHistory reads one or more transaction history CSVs into records.
// Identical rows appearing in two different files mean overlapping exports
// and abort the load; within one file Fidelity legitimately repeats rows
// (several lots sold the same day), so those stay.
func LoadHistory(paths ...string) ([]pit38.TransactionRecord, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no transaction history files")
	}
	var records []pit38.TransactionRecord
	seen := make(map[string]string) // row key -> source file
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		rows, err := parseHistory(f, filepath.Base(p))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		for _, r := range rows {
			key := rowKey(r)
			if other, dup := seen[key]; dup && other != r.Source {
				return nil, fmt.Errorf("duplicate transaction in %s and %s: %s %q %s",
					other, r.Source, r.TradeDate, r.RawType, r.Investment)
			}
			seen[key] = r.Source
		}
		records = append(records, rows...)
	}
	log.Printf("loaded %d transactions from %d file(s)", len(records), len(paths))
	return records, nil
}

func rowKey(r pit38.TransactionRecord) string {
	return strings.Join([]string{r.TradeDate.String(), r.RawType, r.Investment, r.Shares.String(), r.AmountUSD.String()}, "|")
}

// parseHistory reads one CSV export. Columns are located by header name so
// extra columns and reordered exports parse the same.
func parseHistory(r io.Reader, source string) ([]pit38.TransactionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := columnIndex(header)
	for _, name := range []string{"Transaction date", "Transaction type", "Amount"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
	}

	var records []pit38.TransactionRecord
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

		dateCell := cell("Transaction date")
		if footerRE.MatchString(dateCell) && cell("Transaction type") == "" && cell("Investment name") == "" {
			continue
		}

		rec := pit38.TransactionRecord{
			// Fidelity suffixes the type with per-row details after a
			// semicolon; only the leading phrase is the type.
			RawType:    strings.TrimSpace(strings.SplitN(cell("Transaction type"), ";", 2)[0]),
			Investment: cell("Investment name"),
			Symbol:     cell("Symbol"),
			Source:     source,
			Line:       line,
		}
		if on, err := time.Parse(tradeDateFormat, dateCell); err == nil {
			rec.TradeDate = date.New(on.Date())
		}
		if shares, ok := parseNumber(cell("Shares")); ok {
			rec.Shares = pit38.Q(shares)
			rec.HasShares = true
		}
		if amount, ok := parseMoney(cell("Amount")); ok {
			rec.AmountUSD = pit38.M(amount, "USD")
			rec.HasAmount = true
		}
		rec.SettlementDate = pit38.SettlementOn(rec.TradeDate, rec.RawType)
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

// parseNumber parses a plain numeric cell. Fidelity marks empty cells
// with "-".
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseMoney parses a dollar cell like "$1,234.50" or "($45.00)";
// parentheses mean a negative amount.
func parseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	v, err := strconv.ParseFloat(moneyCleanRE.ReplaceAllString(s, ""), 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -abs(v)
	}
	return v, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
