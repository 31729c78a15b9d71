package pit38

import "github.com/pit38/pit38/date"

// CostBasisOrigin records how the cost leg of a disposal was established.
// The zero value is deliberately invalid: a disposal must always say where
// its cost came from, a silent zero-cost substitution is not a valid output.
type CostBasisOrigin int

const (
	originUnset CostBasisOrigin = iota
	// OriginExact: cost comes from the lot's own purchase amount or from a
	// declared, parseable cost basis.
	OriginExact
	// OriginZero: cost fell back to zero by rule (RSU lots) or because no
	// fallback purchase could be matched.
	OriginZero
	// OriginMatchedPurchase: cost fell back to the proportional amount of a
	// purchase record matched by acquisition date.
	OriginMatchedPurchase
)

func (o CostBasisOrigin) String() string {
	switch o {
	case OriginExact:
		return "exact"
	case OriginZero:
		return "fallback-zero"
	case OriginMatchedPurchase:
		return "fallback-matched-purchase"
	default:
		return "unset"
	}
}

// Disposal is one matched slice of a sale: a quantity sold, its proceeds,
// and the cost basis of the purchase lot it disposes of, both legs already
// converted to local currency. The proceeds and cost legs convert on
// independent reference dates.
type Disposal struct {
	Investment string
	SaleDate   date.Date // settlement date of the sale
	AcquiredOn date.Date // settlement date of the purchase lot, or manifest acquisition date
	Quantity   Quantity
	Proceeds   Money
	Cost       Money
	CostOrigin CostBasisOrigin

	// Reference dates the two legs were converted on.
	ProceedsRateDate date.Date
	CostRateDate     date.Date
}

// RemainingLot is an unconsumed purchase balance left after FIFO matching,
// reported for auditability.
type RemainingLot struct {
	Investment string
	AcquiredOn date.Date
	Quantity   Quantity
	Cost       Money // local currency cost of the remaining balance
}
