// Package renderer formats computed tax reports as markdown.
package renderer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pit38/pit38"
)

// ReportMarkdown renders the yearly tax report with the numbered form
// fields of the year's PIT-38 revision next to each amount.
func ReportMarkdown(r *pit38.Report, warns *pit38.Warnings) string {
	var b strings.Builder
	layout := pit38.LayoutFor(r.Year)

	fmt.Fprintf(&b, "# PIT-38 Report for %d\n\n", r.Year)
	fmt.Fprintf(&b, "All amounts in %s.\n\n", r.Currency)

	fmt.Fprint(&b, "## Capital Gains (art. 30b)\n\n")
	fmt.Fprintln(&b, "| Field | | Amount |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	row := func(label string, id pit38.FieldID, amount pit38.Money) {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", label, layout.Field(id), amount)
	}
	row("Proceeds", pit38.FieldProceeds, r.Proceeds)
	row("Costs", pit38.FieldCosts, r.Costs)
	row("Income", pit38.FieldIncome, r.Income)
	row("Loss", pit38.FieldLoss, r.Loss)
	row("Tax base", pit38.FieldTaxBase, r.TaxBase)
	row("Tax (19%)", pit38.FieldTax, r.Tax)
	row("Foreign tax credit", pit38.FieldForeignCapital, r.ForeignTaxCapital)
	row("Tax due", pit38.FieldTaxDue, r.TaxDue)
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Flat-Rate Tax on Dividends (art. 30a)\n\n")
	fmt.Fprintln(&b, "| Field | | Amount |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	fmt.Fprintf(&b, "| Equity dividends | | %s |\n", r.EquityDividends)
	fmt.Fprintf(&b, "| Fund distributions | | %s |\n", r.FundDistributions)
	row("Dividend income", pit38.FieldFlatIncome, r.DividendIncome)
	row("Flat tax (19%)", pit38.FieldFlatTax, r.FlatTax)
	row("Foreign tax credit", pit38.FieldForeignDividend, r.ForeignTaxDividend)
	row("Flat tax due", pit38.FieldFlatTaxDue, r.FlatTaxDue)
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Foreign Income Annex (PIT/ZG)\n\n")
	fmt.Fprintln(&b, "| Field | | Amount |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	row("Income", pit38.FieldAnnexIncome, r.AnnexIncome)
	row("Tax paid abroad", pit38.FieldAnnexForeignTax, r.AnnexForeignTax)
	fmt.Fprintln(&b)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Disposals\n\n")
		fmt.Fprintln(w, "| Security | Acquired | Sold | Quantity | Proceeds | Cost | Basis |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|:---|")
		for _, d := range r.Disposals {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
				d.Investment, d.AcquiredOn, d.SaleDate, d.Quantity, d.Proceeds, d.Cost, d.CostOrigin)
		}
		fmt.Fprintln(w)
		return len(r.Disposals) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Warnings\n\n")
		summary := warns.Summary()
		kinds := make([]string, 0, len(summary))
		for kind := range summary {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(w, "- %s: %d\n", kind, summary[pit38.WarningKind(kind)])
		}
		fmt.Fprintln(w)
		return warns.Total() > 0
	})

	return b.String()
}

// RemainingLotsMarkdown renders the open lots left after FIFO matching,
// the carry-over position for next year's run.
func RemainingLotsMarkdown(lots []pit38.RemainingLot) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Open Lots\n\n")
	if len(lots) == 0 {
		fmt.Fprintln(&b, "No open lots.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Security | Acquired | Quantity | Cost |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for _, lot := range lots {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", lot.Investment, lot.AcquiredOn, lot.Quantity, lot.Cost.Round2())
	}
	return b.String()
}
