package fidelity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pit38/pit38"
	"github.com/pit38/pit38/date"
)

const historyCSV = `Transaction date,Transaction type,Investment name,Symbol,Shares,Amount
Mar-18-2024,YOU SOLD; lot details,ACME CORP,ACME,-40,"$20,000.00"
Jan-08-2024,YOU BOUGHT ESPP AS OF Dec-29-2023,ACME CORP,ACME,100,"($8,500.00)"
Mar-15-2024,DIVIDEND RECEIVED,ACME CORP,ACME,-,$100.00
Unless noted otherwise rates are for settled trades,,,,,
`

func TestParseHistory(t *testing.T) {
	records, err := parseHistory(strings.NewReader(historyCSV), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (footer dropped)", len(records))
	}

	sale := records[0]
	if sale.RawType != "YOU SOLD" {
		t.Errorf("type = %q, want the part before the semicolon", sale.RawType)
	}
	if sale.TradeDate != date.New(2024, 3, 18) {
		t.Errorf("trade date = %s, want 2024-03-18", sale.TradeDate)
	}
	if sale.SettlementDate != date.New(2024, 3, 20) {
		t.Errorf("settlement date = %s, want 2024-03-20", sale.SettlementDate)
	}
	if !sale.HasShares || !sale.Shares.Equal(pit38.Q(-40)) {
		t.Errorf("shares = %s, want -40", sale.Shares)
	}
	if !sale.HasAmount || !sale.AmountUSD.Equal(pit38.M(20000, "USD")) {
		t.Errorf("amount = %s, want $20,000.00", sale.AmountUSD)
	}
	if sale.Source != "test.csv" || sale.Line != 2 {
		t.Errorf("source = %s:%d, want test.csv:2", sale.Source, sale.Line)
	}

	buy := records[1]
	if !buy.AmountUSD.Equal(pit38.M(-8500, "USD")) {
		t.Errorf("parenthesized amount = %s, want -8500", buy.AmountUSD)
	}

	div := records[2]
	if div.HasShares {
		t.Error("a '-' share cell should parse as absent")
	}
	if div.SettlementDate != div.TradeDate {
		t.Errorf("a dividend settles on its trade date, got %s", div.SettlementDate)
	}
}

func TestLoadHistoryCrossFileDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "Transaction history 2024.csv")
	b := filepath.Join(dir, "Transaction history 2024 (1).csv")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte(historyCSV), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := LoadHistory(a, b); err == nil {
		t.Fatal("expected duplicate error for overlapping exports")
	} else if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %v, want duplicate", err)
	}

	// A single file with repeated rows is fine.
	if _, err := LoadHistory(a); err != nil {
		t.Fatal(err)
	}
}

const manifestTSV = "Date sold or transferred\tDate acquired\tQuantity\tStock source\tCost basis\tSymbol\n" +
	"Mar-18-2024\tJun-15-2023\t25\tRS\t$3,000.00\tACME\n" +
	"Mar-18-2024\tDec-29-2023\t15\tSP\t($450.00)\t-\n" +
	"Mar-18-2024\tJun-15-2023\t25\tRS\t$3,000.00\tACME\n"

func TestParseManifest(t *testing.T) {
	entries, err := parseManifest(strings.NewReader(manifestTSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	rs := entries[0]
	if rs.SaleDate != date.New(2024, 3, 18) || rs.AcquiredOn != date.New(2023, 6, 15) {
		t.Errorf("dates = %s/%s", rs.SaleDate, rs.AcquiredOn)
	}
	if !rs.Quantity.Equal(pit38.Q(25)) || rs.Source != pit38.PlanRS || rs.Symbol != "ACME" {
		t.Errorf("entry = %+v", rs)
	}
	if !rs.HasCostBasis || !rs.CostBasisUSD.Equal(pit38.M(3000, "USD")) {
		t.Errorf("cost basis = %s, want 3000", rs.CostBasisUSD)
	}

	sp := entries[1]
	if sp.Source != pit38.PlanSP || sp.Symbol != "" {
		t.Errorf("entry = %+v, want SP without a symbol", sp)
	}
	if !sp.CostBasisUSD.Equal(pit38.M(-450, "USD")) {
		t.Errorf("parenthesized cost basis = %s, want -450", sp.CostBasisUSD)
	}
}

func TestLoadManifestDeduplicates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "stock-sales-2024.txt")
	if err := os.WriteFile(p, []byte(manifestTSV), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadManifest(p, p)
	if err != nil {
		t.Fatal(err)
	}
	// The repeated RS row and the repeated file both collapse.
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Transaction history 2024.csv", "Transaction history 2023.csv", "stock-sales-2024.txt", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	history, manifests, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Errorf("got %d history files, want 2", len(history))
	}
	if len(manifests) != 1 {
		t.Errorf("got %d manifest files, want 1", len(manifests))
	}
}
