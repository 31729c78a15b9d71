package pit38

import (
	"github.com/pit38/pit38/date"
)

// fixedRate is a RateSource publishing the same rate every day.
type fixedRate float64

func (f fixedRate) RateOnOrBefore(d date.Date) (float64, date.Date, bool) {
	return float64(f), d, true
}

// noRates is a RateSource with nothing published.
type noRates struct{}

func (noRates) RateOnOrBefore(d date.Date) (float64, date.Date, bool) {
	return 0, date.Date{}, false
}

// staleRates republishes one old rate forever.
type staleRates struct{ on date.Date }

func (s staleRates) RateOnOrBefore(d date.Date) (float64, date.Date, bool) {
	return 4.0, s.on, true
}

// unitConverter converts 1:1 so amounts stay readable in tests.
func unitConverter() *Converter {
	return &Converter{Rates: fixedRate(1.0)}
}

// rec builds a settled transaction record the way the fidelity parser
// would emit it.
func rec(tradeDate, rawType, investment string, shares, amount float64) TransactionRecord {
	on := date.MustParse(tradeDate)
	r := TransactionRecord{
		TradeDate:  on,
		RawType:    rawType,
		Investment: investment,
		Shares:     Q(shares),
		HasShares:  true,
		AmountUSD:  M(amount, "USD"),
		HasAmount:  true,
	}
	r.SettlementDate = SettlementOn(on, rawType)
	return r
}

// classified is rec plus classification, for matcher tests.
func classified(tradeDate, rawType, investment string, shares, amount float64) ClassifiedTransaction {
	r := rec(tradeDate, rawType, investment, shares, amount)
	return ClassifiedTransaction{TransactionRecord: r, Category: Classifier{}.Classify(r)}
}

// lot builds a manifest entry without a declared cost basis.
func lot(saleDate, acquiredOn string, qty float64, source PlanSource) LotEntry {
	return LotEntry{
		SaleDate:   date.MustParse(saleDate),
		AcquiredOn: date.MustParse(acquiredOn),
		Quantity:   Q(qty),
		Source:     source,
	}
}
