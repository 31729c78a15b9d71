package pit38

import (
	"errors"
	"fmt"
)

// Method selects how sales are matched to the purchase lots they dispose of.
type Method int

const (
	// MethodFIFO consumes purchase lots in strict chronological order.
	MethodFIFO Method = iota
	// MethodCustom follows an externally supplied lot manifest.
	MethodCustom
)

func (m Method) String() string {
	switch m {
	case MethodFIFO:
		return "fifo"
	case MethodCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseMethod parses a string into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "fifo":
		return MethodFIFO, nil
	case "custom":
		return MethodCustom, nil
	default:
		return 0, fmt.Errorf("unknown matching method: %q", s)
	}
}

// Engine runs the full pipeline: classification, lot matching, currency
// conversion, aggregation. It is stateless across runs; each Compute call
// is independent and idempotent given identical inputs.
type Engine struct {
	Classifier Classifier
	Aggregator Aggregator
	Converter  *Converter
	// Strict fails on ambiguous manifest matches instead of taking the
	// first candidate (custom mode only).
	Strict bool
}

// Compute produces the tax report for one year. The manifest is required
// in custom mode and ignored in FIFO mode.
func (e Engine) Compute(records []TransactionRecord, manifest []LotEntry, method Method, year int, warns *Warnings) (*Report, error) {
	if e.Converter == nil {
		return nil, errors.New("engine has no currency converter")
	}

	txs := e.Classifier.ClassifyAll(records, warns)

	var disposals []Disposal
	var err error
	switch method {
	case MethodFIFO:
		disposals, _, err = MatchFIFO(txs, e.Converter)
	case MethodCustom:
		if len(manifest) == 0 {
			return nil, errors.New("custom matching requires a lot manifest")
		}
		disposals, err = CustomMatcher{Strict: e.Strict}.Match(manifest, txs, e.Converter, warns)
	default:
		return nil, fmt.Errorf("unknown matching method %d", method)
	}
	if err != nil {
		return nil, err
	}

	return e.Aggregator.Aggregate(disposals, txs, year, e.Converter)
}
