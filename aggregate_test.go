package pit38

import (
	"testing"

	"github.com/pit38/pit38/date"
)

func disposal(saleDate string, proceeds, cost float64) Disposal {
	return Disposal{
		Investment: "ACME CORP",
		SaleDate:   date.MustParse(saleDate),
		AcquiredOn: date.New(2023, 1, 10),
		Quantity:   Q(1),
		Proceeds:   M(proceeds, "PLN"),
		Cost:       M(cost, "PLN"),
		CostOrigin: OriginExact,
	}
}

func TestAggregateCapitalGains(t *testing.T) {
	disposals := []Disposal{
		disposal("2024-02-07", 1000.40, 300),
		disposal("2024-06-12", 500, 700),
	}
	r, err := Aggregator{}.Aggregate(disposals, nil, 2024, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if want := M(1500.40, "PLN"); !r.Proceeds.Equal(want) {
		t.Errorf("proceeds = %s, want %s", r.Proceeds, want)
	}
	if want := M(1000, "PLN"); !r.Costs.Equal(want) {
		t.Errorf("costs = %s, want %s", r.Costs, want)
	}
	if want := M(500.40, "PLN"); !r.Income.Equal(want) {
		t.Errorf("income = %s, want %s", r.Income, want)
	}
	// 500.40 rounds down to the full zloty, then 19%.
	if want := M(500, "PLN"); !r.TaxBase.Equal(want) {
		t.Errorf("tax base = %s, want %s", r.TaxBase, want)
	}
	if want := M(95, "PLN"); !r.Tax.Equal(want) {
		t.Errorf("tax = %s, want %s", r.Tax, want)
	}
	if want := M(95, "PLN"); !r.TaxDue.Equal(want) {
		t.Errorf("tax due = %s, want %s", r.TaxDue, want)
	}
	if !r.Loss.IsZero() {
		t.Errorf("loss = %s, want zero", r.Loss)
	}
	if len(r.Disposals) != 2 {
		t.Errorf("report carries %d disposals, want 2", len(r.Disposals))
	}
}

func TestAggregateLossYear(t *testing.T) {
	disposals := []Disposal{disposal("2024-02-07", 100, 300)}
	r, err := Aggregator{}.Aggregate(disposals, nil, 2024, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if want := M(-200, "PLN"); !r.Income.Equal(want) {
		t.Errorf("income = %s, want %s", r.Income, want)
	}
	if want := M(200, "PLN"); !r.Loss.Equal(want) {
		t.Errorf("loss = %s, want %s", r.Loss, want)
	}
	for name, m := range map[string]Money{"tax base": r.TaxBase, "tax": r.Tax, "tax due": r.TaxDue} {
		if !m.IsZero() {
			t.Errorf("%s = %s, want zero in a loss year", name, m)
		}
	}
}

func TestAggregateYearFilter(t *testing.T) {
	disposals := []Disposal{
		disposal("2023-12-28", 900, 100),
		disposal("2024-02-07", 500, 100),
	}
	txs := []ClassifiedTransaction{
		classified("2023-11-15", "DIVIDEND RECEIVED", "ACME CORP", 0, 80),
		classified("2024-03-15", "DIVIDEND RECEIVED", "ACME CORP", 0, 100),
	}
	r, err := Aggregator{}.Aggregate(disposals, txs, 2024, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if want := M(500, "PLN"); !r.Proceeds.Equal(want) {
		t.Errorf("proceeds = %s, want %s (2023 sale excluded)", r.Proceeds, want)
	}
	if want := M(100, "PLN"); !r.DividendIncome.Equal(want) {
		t.Errorf("dividend income = %s, want %s (2023 dividend excluded)", r.DividendIncome, want)
	}
	if len(r.Disposals) != 1 {
		t.Errorf("report carries %d disposals, want 1", len(r.Disposals))
	}
}

func TestAggregateDividends(t *testing.T) {
	txs := []ClassifiedTransaction{
		classified("2024-03-15", "DIVIDEND RECEIVED", "ACME CORP", 0, 100),
		classified("2024-03-15", "DIVIDEND RECEIVED", "FIDELITY GOVERNMENT MONEY MARKET", 0, 23.45),
		classified("2024-03-15", "NON-RESIDENT TAX DIVIDEND RECEIVED", "ACME CORP", 0, -15),
	}
	r, err := Aggregator{}.Aggregate(nil, txs, 2024, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if want := M(100, "PLN"); !r.EquityDividends.Equal(want) {
		t.Errorf("equity dividends = %s, want %s", r.EquityDividends, want)
	}
	if want := M(23.45, "PLN"); !r.FundDistributions.Equal(want) {
		t.Errorf("fund distributions = %s, want %s", r.FundDistributions, want)
	}
	if want := M(123.45, "PLN"); !r.DividendIncome.Equal(want) {
		t.Errorf("dividend income = %s, want %s", r.DividendIncome, want)
	}
	// 123.45 * 19% = 23.4555, rounded up to the grosz.
	if want := M(23.46, "PLN"); !r.FlatTax.Equal(want) {
		t.Errorf("flat tax = %s, want %s", r.FlatTax, want)
	}
	if want := M(15, "PLN"); !r.ForeignTaxDividend.Equal(want) {
		t.Errorf("dividend credit = %s, want %s", r.ForeignTaxDividend, want)
	}
	// 23.46 - 15.00 = 8.46, filed as 8.
	if want := M(8, "PLN"); !r.FlatTaxDue.Equal(want) {
		t.Errorf("flat tax due = %s, want %s", r.FlatTaxDue, want)
	}
}

func TestAggregateCreditCap(t *testing.T) {
	txs := []ClassifiedTransaction{
		classified("2024-03-15", "DIVIDEND RECEIVED", "ACME CORP", 0, 100),
		classified("2024-03-15", "NON-RESIDENT TAX DIVIDEND RECEIVED", "ACME CORP", 0, -50),
		classified("2024-03-15", "NON-RESIDENT TAX", "ACME CORP", 0, -30),
	}
	disposals := []Disposal{disposal("2024-02-07", 150, 100)}
	r, err := Aggregator{}.Aggregate(disposals, txs, 2024, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	// Withheld 50 against a flat tax of 19: the credit caps at the tax.
	if !r.ForeignTaxDividend.Equal(r.FlatTax) {
		t.Errorf("dividend credit = %s, want capped at %s", r.ForeignTaxDividend, r.FlatTax)
	}
	if !r.FlatTaxDue.IsZero() {
		t.Errorf("flat tax due = %s, want zero", r.FlatTaxDue)
	}
	// Capital side: income 50, tax 9.50, credit 30 caps at 9.50.
	if want := M(9.50, "PLN"); !r.ForeignTaxCapital.Equal(want) {
		t.Errorf("capital credit = %s, want %s", r.ForeignTaxCapital, want)
	}
	if !r.TaxDue.IsZero() {
		t.Errorf("tax due = %s, want zero", r.TaxDue)
	}
}

func TestAggregateUnsetCostOrigin(t *testing.T) {
	d := disposal("2024-02-07", 100, 0)
	d.CostOrigin = originUnset
	if _, err := (Aggregator{}).Aggregate([]Disposal{d}, nil, 2024, unitConverter()); err == nil {
		t.Fatal("expected error for disposal without a cost-basis origin")
	}
}

func TestRoundTax(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{1234.49, 1234},
		{1234.50, 1235},
		{1234.51, 1235},
		{0.49, 0},
		{0.50, 1},
		{-200, 0},
	}
	for _, tt := range tests {
		if got := roundTax(M(tt.in, "PLN")); !got.Equal(M(tt.want, "PLN")) {
			t.Errorf("roundTax(%v) = %s, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoundUpGrosz(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{23.4555, 23.46},
		{23.4500, 23.45},
		{0.001, 0.01},
	}
	for _, tt := range tests {
		if got := roundUpGrosz(M(tt.in, "PLN")); !got.Equal(M(tt.want, "PLN")) {
			t.Errorf("roundUpGrosz(%v) = %s, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.495, 0.50}, // half a grosz rounds up
		{0.494, 0.49},
		{-0.495, -0.50},
	}
	for _, tt := range tests {
		if got := M(tt.in, "PLN").Round2(); !got.Equal(M(tt.want, "PLN")) {
			t.Errorf("Round2(%v) = %s, want %v", tt.in, got, tt.want)
		}
	}
}
