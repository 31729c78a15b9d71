package pit38

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// defaultFlatRate is the statutory rate applied to both the capital-gains
// base and the flat-rate dividend base.
var defaultFlatRate = decimal.NewFromFloat(0.19)

// Aggregator folds matched disposals and classified dividend/withholding
// rows into the output taxonomy for one tax year.
type Aggregator struct {
	// FlatRate overrides the statutory 19% rate when non-zero.
	FlatRate decimal.Decimal
}

// Report is the aggregated tax result for one year: the rounded filing
// amounts plus the unrounded subtotals they derive from, kept for
// auditability. Immutable after construction.
type Report struct {
	Year     int
	Currency string

	// Capital-gains bucket. Proceeds, Costs and Income are unrounded
	// subtotals (grosz precision); Income goes negative when the year
	// closed at a loss, and Loss holds the non-negative deficit.
	Proceeds Money
	Costs    Money
	Income   Money
	Loss     Money
	TaxBase  Money // Income rounded per art. 63 §1, never negative
	Tax      Money
	ForeignTaxCapital Money // credit, capped at Tax
	TaxDue            Money

	// Flat-rate (dividend) bucket. DividendIncome is the gross base:
	// equity-like plus fund-like distributions, reinvestments excluded.
	DividendIncome     Money
	EquityDividends    Money
	FundDistributions  Money
	FlatTax            Money // rounded up to the grosz per art. 63 §1a
	ForeignTaxDividend Money // credit, capped at FlatTax
	FlatTaxDue         Money

	// Foreign-income annex.
	AnnexIncome     Money
	AnnexForeignTax Money

	Disposals []Disposal // the disposals of the year, in match order
}

func (a Aggregator) rate() decimal.Decimal {
	if a.FlatRate.IsZero() {
		return defaultFlatRate
	}
	return a.FlatRate
}

// Aggregate reduces disposals and classified transactions into a Report.
// Disposals participate when their sale date falls in the tax year;
// dividend and withholding rows when their settlement date does. The
// amounts of dividend and withholding rows are converted here, each on its
// own settlement date.
func (a Aggregator) Aggregate(disposals []Disposal, txs []ClassifiedTransaction, year int, conv *Converter) (*Report, error) {
	r := &Report{Year: year, Currency: conv.currency()}

	proceeds := M(0, r.Currency)
	costs := M(0, r.Currency)
	for _, d := range disposals {
		if d.CostOrigin == originUnset {
			return nil, fmt.Errorf("disposal of %s on %s has no cost-basis origin", d.Investment, d.SaleDate)
		}
		if d.SaleDate.Year() != year {
			continue
		}
		proceeds = proceeds.Add(d.Proceeds)
		costs = costs.Add(d.Cost)
		r.Disposals = append(r.Disposals, d)
	}

	equity := M(0, r.Currency)
	fund := M(0, r.Currency)
	foreignDividend := M(0, r.Currency)
	foreignCapital := M(0, r.Currency)
	for _, tx := range txs {
		if tx.SettlementDate.Year() != year {
			continue
		}
		switch tx.Category {
		case DividendEquity, DividendFund, ForeignTaxDividend, ForeignTaxCapital:
		default:
			continue
		}
		local, _, err := conv.ToLocal(tx.AmountUSD, tx.SettlementDate)
		if err != nil {
			return nil, fmt.Errorf("converting %s on %s: %w", tx.Category, tx.TradeDate, err)
		}
		switch tx.Category {
		case DividendEquity:
			equity = equity.Add(local.Abs())
		case DividendFund:
			fund = fund.Add(local.Abs())
		case ForeignTaxDividend:
			// Withholding rows are negative cash amounts.
			foreignDividend = foreignDividend.Add(local.Neg())
		case ForeignTaxCapital:
			foreignCapital = foreignCapital.Add(local.Neg())
		}
	}

	rate := Q(a.rate())

	// Capital-gains bucket.
	r.Proceeds = proceeds.Round2()
	r.Costs = costs.Round2()
	r.Income = r.Proceeds.Sub(r.Costs)
	r.Loss = floorZero(r.Income.Neg()).Round2()
	r.TaxBase = roundTax(r.Income)
	r.Tax = r.TaxBase.Mul(rate).Round2()
	r.ForeignTaxCapital = capCredit(floorZero(foreignCapital), r.Tax)
	r.TaxDue = roundTax(r.Tax.Sub(r.ForeignTaxCapital))

	// Flat-rate bucket.
	r.EquityDividends = equity.Round2()
	r.FundDistributions = fund.Round2()
	r.DividendIncome = r.EquityDividends.Add(r.FundDistributions)
	r.FlatTax = roundUpGrosz(r.DividendIncome.Mul(rate))
	r.ForeignTaxDividend = capCredit(floorZero(foreignDividend), r.FlatTax)
	r.FlatTaxDue = roundTax(r.FlatTax.Sub(r.ForeignTaxDividend))

	// Foreign-income annex.
	r.AnnexIncome = r.Income
	r.AnnexForeignTax = r.ForeignTaxCapital

	return r, nil
}

// roundTax rounds a filing amount to the full unit per art. 63 §1: a
// fractional remainder below half a unit is discarded, at or above half
// rounds up. Negative amounts file as zero.
func roundTax(m Money) Money {
	if m.value.IsNegative() {
		return Money{value: decimal.Zero, cur: m.cur}
	}
	return Money{value: m.value.Round(0), cur: m.cur}
}

// roundUpGrosz rounds up to the full grosz (0.01) per art. 63 §1a.
func roundUpGrosz(m Money) Money {
	return Money{value: m.value.RoundCeil(2), cur: m.cur}
}

// capCredit bounds a foreign tax credit to the domestic tax computed on
// the corresponding income: the credit cannot exceed the tax otherwise due.
func capCredit(credit, tax Money) Money {
	if tax.LessThan(credit) {
		return tax
	}
	return credit.Round2()
}

// floorZero clamps a negative amount to zero.
func floorZero(m Money) Money {
	if m.IsNegative() {
		return Money{value: decimal.Zero, cur: m.cur}
	}
	return m
}
