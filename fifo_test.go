package pit38

import (
	"strings"
	"testing"
)

func TestMatchFIFO(t *testing.T) {
	// Buy 100 for $1000, later sell 40 for $500: the disposal carries the
	// whole proceeds and 40% of the lot's cost, 60 shares stay open.
	txs := []ClassifiedTransaction{
		classified("2024-01-08", "YOU BOUGHT", "ACME CORP", 100, -1000),
		classified("2024-02-05", "YOU SOLD", "ACME CORP", -40, 500),
	}
	disposals, remaining, err := MatchFIFO(txs, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if len(disposals) != 1 {
		t.Fatalf("got %d disposals, want 1", len(disposals))
	}
	d := disposals[0]
	if !d.Quantity.Equal(Q(40)) {
		t.Errorf("quantity = %s, want 40", d.Quantity)
	}
	if want := M(500, "PLN"); !d.Proceeds.Equal(want) {
		t.Errorf("proceeds = %s, want %s", d.Proceeds, want)
	}
	if want := M(400, "PLN"); !d.Cost.Equal(want) {
		t.Errorf("cost = %s, want %s", d.Cost, want)
	}
	if d.CostOrigin != OriginExact {
		t.Errorf("cost origin = %v, want OriginExact", d.CostOrigin)
	}
	if len(remaining) != 1 || !remaining[0].Quantity.Equal(Q(60)) {
		t.Fatalf("remaining = %v, want one lot of 60", remaining)
	}
	if want := M(600, "PLN"); !remaining[0].Cost.Equal(want) {
		t.Errorf("remaining cost = %s, want %s", remaining[0].Cost, want)
	}
}

func TestMatchFIFOSplitsAcrossLots(t *testing.T) {
	// A sale larger than the oldest lot consumes into the next one.
	txs := []ClassifiedTransaction{
		classified("2024-01-08", "YOU BOUGHT", "ACME CORP", 10, -100),
		classified("2024-01-15", "YOU BOUGHT", "ACME CORP", 10, -200),
		classified("2024-02-05", "YOU SOLD", "ACME CORP", -15, 450),
	}
	disposals, remaining, err := MatchFIFO(txs, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if len(disposals) != 2 {
		t.Fatalf("got %d disposals, want 2", len(disposals))
	}
	// First slice drains the older lot entirely.
	if !disposals[0].Quantity.Equal(Q(10)) || !disposals[0].Cost.Equal(M(100, "PLN")) {
		t.Errorf("first slice = %s shares, cost %s", disposals[0].Quantity, disposals[0].Cost)
	}
	if want := M(300, "PLN"); !disposals[0].Proceeds.Equal(want) {
		t.Errorf("first slice proceeds = %s, want %s", disposals[0].Proceeds, want)
	}
	// Second slice takes half of the newer lot.
	if !disposals[1].Quantity.Equal(Q(5)) || !disposals[1].Cost.Equal(M(100, "PLN")) {
		t.Errorf("second slice = %s shares, cost %s", disposals[1].Quantity, disposals[1].Cost)
	}
	if disposals[0].AcquiredOn == disposals[1].AcquiredOn {
		t.Error("slices should reference distinct acquisition dates")
	}
	if len(remaining) != 1 || !remaining[0].Quantity.Equal(Q(5)) {
		t.Fatalf("remaining = %v, want one lot of 5", remaining)
	}
}

func TestMatchFIFOPerInstrument(t *testing.T) {
	// Queues never mix instruments even when names share a prefix.
	txs := []ClassifiedTransaction{
		classified("2024-01-08", "YOU BOUGHT", "ACME CORP", 10, -100),
		classified("2024-01-08", "YOU BOUGHT", "ACME CORP CL B", 10, -500),
		classified("2024-02-05", "YOU SOLD", "ACME CORP", -10, 300),
	}
	disposals, remaining, err := MatchFIFO(txs, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if len(disposals) != 1 || !disposals[0].Cost.Equal(M(100, "PLN")) {
		t.Fatalf("disposals = %v", disposals)
	}
	if len(remaining) != 1 || remaining[0].Investment != "ACME CORP CL B" {
		t.Fatalf("remaining = %v", remaining)
	}
}

func TestMatchFIFOOversold(t *testing.T) {
	txs := []ClassifiedTransaction{
		classified("2024-01-08", "YOU BOUGHT", "ACME CORP", 10, -100),
		classified("2024-02-05", "YOU SOLD", "ACME CORP", -15, 450),
	}
	_, _, err := MatchFIFO(txs, unitConverter())
	if err == nil {
		t.Fatal("expected oversold error")
	}
	if !strings.Contains(err.Error(), "oversold") {
		t.Errorf("error = %v, want oversold", err)
	}
}

func TestMatchFIFOOrdersByTradeDate(t *testing.T) {
	// A vest recorded after a later market buy still consumes first.
	txs := []ClassifiedTransaction{
		classified("2024-03-04", "YOU BOUGHT", "ACME CORP", 10, -1000),
		classified("2024-01-08", "YOU BOUGHT RSU", "ACME CORP", 10, -100),
		classified("2024-04-01", "YOU SOLD", "ACME CORP", -10, 500),
	}
	disposals, _, err := MatchFIFO(txs, unitConverter())
	if err != nil {
		t.Fatal(err)
	}
	if len(disposals) != 1 || !disposals[0].Cost.Equal(M(100, "PLN")) {
		t.Fatalf("disposals = %v, want the January vest consumed", disposals)
	}
}
