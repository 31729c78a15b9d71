package pit38

import (
	"fmt"
	"log"
)

// WarningKind buckets recoverable data-quality findings so a run can be
// summarised as a handful of counts instead of one line per bad row.
type WarningKind string

const (
	WarnUnsettled     WarningKind = "missing-settlement-date"
	WarnUnclassified  WarningKind = "unclassified-type"
	WarnZeroCost      WarningKind = "fallback-zero-cost"
	WarnMatchedCost   WarningKind = "fallback-matched-purchase"
	WarnNoFallback    WarningKind = "fallback-not-found"
	WarnAmbiguous     WarningKind = "ambiguous-match"
	WarnReconcile     WarningKind = "quantity-reconciliation"
	WarnInvalidLot    WarningKind = "invalid-manifest-row"
	WarnNegativeBasis WarningKind = "negative-cost-basis"
	WarnZeroShares    WarningKind = "zero-share-record"
)

// Warnings collects recoverable findings during a run. Each is logged once
// when recorded; Summary condenses them into per-kind counts afterwards.
// A nil *Warnings discards everything, which keeps pure-function call
// sites uncluttered in tests.
type Warnings struct {
	counts map[WarningKind]int
	total  int
}

// Addf records one warning and logs it.
func (w *Warnings) Addf(kind WarningKind, format string, args ...any) {
	if w == nil {
		return
	}
	if w.counts == nil {
		w.counts = make(map[WarningKind]int)
	}
	w.counts[kind]++
	w.total++
	log.Printf("warning (%s): %s", kind, fmt.Sprintf(format, args...))
}

// Count returns the number of warnings recorded for a kind.
func (w *Warnings) Count(kind WarningKind) int {
	if w == nil {
		return 0
	}
	return w.counts[kind]
}

// Total returns the number of warnings recorded overall.
func (w *Warnings) Total() int {
	if w == nil {
		return 0
	}
	return w.total
}

// Summary returns the per-kind counts, for the end-of-run report.
func (w *Warnings) Summary() map[WarningKind]int {
	if w == nil {
		return nil
	}
	return w.counts
}
