package renderer

import (
	"strings"
	"testing"

	"github.com/pit38/pit38"
	"github.com/pit38/pit38/date"
)

func testReport(t *testing.T) *pit38.Report {
	t.Helper()
	disposals := []pit38.Disposal{{
		Investment: "ACME CORP",
		SaleDate:   date.New(2024, 3, 20),
		AcquiredOn: date.New(2023, 6, 15),
		Quantity:   pit38.Q(40),
		Proceeds:   pit38.M(20000, "PLN"),
		Cost:       pit38.M(8500, "PLN"),
		CostOrigin: pit38.OriginExact,
	}}
	conv := &pit38.Converter{Rates: one{}}
	r, err := pit38.Aggregator{}.Aggregate(disposals, nil, 2024, conv)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

type one struct{}

func (one) RateOnOrBefore(d date.Date) (float64, date.Date, bool) { return 1, d, true }

func TestReportMarkdown(t *testing.T) {
	var warns pit38.Warnings
	warns.Addf(pit38.WarnZeroCost, "for the section test")

	got := ReportMarkdown(testReport(t), &warns)
	for _, want := range []string{
		"# PIT-38 Report for 2024",
		"Poz. 22",
		"Poz. 33",
		"PIT-ZG Poz. 30",
		"ACME CORP",
		"## Warnings",
		"fallback-zero-cost: 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report does not contain %q:\n%s", want, got)
		}
	}
}

func TestReportMarkdownSkipsEmptySections(t *testing.T) {
	r, err := pit38.Aggregator{}.Aggregate(nil, nil, 2024, &pit38.Converter{Rates: one{}})
	if err != nil {
		t.Fatal(err)
	}
	got := ReportMarkdown(r, nil)
	if strings.Contains(got, "## Disposals") {
		t.Error("empty disposal section should be skipped")
	}
	if strings.Contains(got, "## Warnings") {
		t.Error("empty warning section should be skipped")
	}
}

func TestRemainingLotsMarkdown(t *testing.T) {
	got := RemainingLotsMarkdown([]pit38.RemainingLot{{
		Investment: "ACME CORP",
		AcquiredOn: date.New(2024, 1, 10),
		Quantity:   pit38.Q(60),
		Cost:       pit38.M(600, "PLN"),
	}})
	if !strings.Contains(got, "ACME CORP") || !strings.Contains(got, "60") {
		t.Errorf("unexpected render:\n%s", got)
	}
	if got := RemainingLotsMarkdown(nil); !strings.Contains(got, "No open lots.") {
		t.Errorf("unexpected empty render:\n%s", got)
	}
}
