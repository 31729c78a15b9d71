package pit38

import (
	"fmt"
	"strings"

	"github.com/pit38/pit38/date"
)

// PlanSource tags the acquisition program a manifest lot came from. The
// cost-basis fallback chain is keyed on it.
type PlanSource int

const (
	// PlanOther is any program the manifest did not tag as RS or SP.
	PlanOther PlanSource = iota
	// PlanRS is a restricted stock unit lot.
	PlanRS
	// PlanSP is an employee stock purchase plan lot.
	PlanSP
)

// ParsePlanSource maps the manifest's stock-source column to a PlanSource.
func ParsePlanSource(s string) PlanSource {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RS":
		return PlanRS
	case "SP":
		return PlanSP
	}
	return PlanOther
}

func (p PlanSource) String() string {
	switch p {
	case PlanRS:
		return "RS"
	case PlanSP:
		return "SP"
	default:
		return "other"
	}
}

// LotEntry is one row of the externally supplied lot manifest: a specific
// quantity sold on a date, tied to the date and program it was acquired
// under. Read-only input for one run.
type LotEntry struct {
	SaleDate     date.Date
	AcquiredOn   date.Date
	Quantity     Quantity
	CostBasisUSD Money
	HasCostBasis bool
	Source       PlanSource
	Symbol       string // optional; narrows ambiguous same-day matches
}

// CustomMatcher costs out sales against an external lot manifest instead of
// FIFO order. Custom mode is explicitly best-effort: manifests are manually
// maintained, so an entry that cannot be fully resolved degrades to a
// warning and a zero cost instead of aborting the run.
type CustomMatcher struct {
	// Strict fails on ambiguous same-day matches instead of deterministically
	// taking the first candidate in input order.
	Strict bool
}

// Match resolves each manifest entry against the transaction history.
// Disposals preserve manifest input order.
func (m CustomMatcher) Match(entries []LotEntry, txs []ClassifiedTransaction, conv *Converter, warns *Warnings) ([]Disposal, error) {
	reconcile(entries, txs, warns)

	var disposals []Disposal
	for _, entry := range entries {
		if entry.SaleDate.IsZero() || entry.AcquiredOn.IsZero() || !entry.Quantity.IsPositive() {
			warns.Addf(WarnInvalidLot, "manifest row with invalid dates or quantity skipped (sold %s, acquired %s, qty %s)",
				entry.SaleDate, entry.AcquiredOn, entry.Quantity)
			continue
		}

		sale, err := m.findSale(entry, txs, warns)
		if err != nil {
			return nil, err
		}
		if sale == nil {
			warns.Addf(WarnNoFallback, "no sale record found for manifest date %s", entry.SaleDate)
			continue
		}

		// Proceeds: the entry's share of the matched sale's amount. A sale
		// whose share count is absent has no per-share price; its lots
		// carry zero proceeds rather than failing the run.
		proceedsUSD := sale.AmountUSD.Abs()
		if saleQty := sale.Shares.Abs(); saleQty.IsZero() {
			warns.Addf(WarnZeroShares, "sale on %s has no share count, proceeds for the manifest lot taken as zero", entry.SaleDate)
			proceedsUSD = proceedsUSD.Mul(Q(0))
		} else {
			proceedsUSD = proceedsUSD.Mul(entry.Quantity).Div(saleQty)
		}
		proceeds, proceedsRateDate, err := conv.ToLocal(proceedsUSD, sale.SettlementDate)
		if err != nil {
			return nil, fmt.Errorf("converting sale proceeds for manifest date %s: %w", entry.SaleDate, err)
		}

		cost, origin, costRateDate, err := m.costBasis(entry, sale, txs, conv, warns)
		if err != nil {
			return nil, err
		}

		disposals = append(disposals, Disposal{
			Investment:       sale.Investment,
			SaleDate:         sale.SettlementDate,
			AcquiredOn:       entry.AcquiredOn,
			Quantity:         entry.Quantity,
			Proceeds:         proceeds.Round2(),
			Cost:             cost.Round2(),
			CostOrigin:       origin,
			ProceedsRateDate: proceedsRateDate,
			CostRateDate:     costRateDate,
		})
	}
	return disposals, nil
}

// costBasis resolves the cost leg of a manifest entry.
//
// A declared, parseable cost basis converts at the acquisition-date rate.
// Otherwise the fallback chain is keyed on the plan source: RS lots cost
// zero by rule (the declared basis on RSU lots is the US FMV-at-vest
// figure, not a deductible cost here); SP lots derive cost from the
// matching ESPP purchase; anything else from any matching purchase.
func (m CustomMatcher) costBasis(entry LotEntry, sale *ClassifiedTransaction, txs []ClassifiedTransaction, conv *Converter, warns *Warnings) (Money, CostBasisOrigin, date.Date, error) {
	if entry.HasCostBasis {
		if entry.CostBasisUSD.IsNegative() {
			warns.Addf(WarnNegativeBasis, "negative declared cost basis %s for lot sold %s, ignored", entry.CostBasisUSD, entry.SaleDate)
		} else {
			cost, rateDate, err := conv.ToLocal(entry.CostBasisUSD, entry.AcquiredOn)
			if err != nil {
				return Money{}, originUnset, date.Date{}, fmt.Errorf("converting declared cost basis for lot sold %s: %w", entry.SaleDate, err)
			}
			return cost, OriginExact, rateDate, nil
		}
	}

	var esppOnly bool
	switch entry.Source {
	case PlanRS:
		warns.Addf(WarnZeroCost, "RS lot sold %s: cost basis is zero by rule", entry.SaleDate)
		return M(0, conv.currency()), OriginZero, date.Date{}, nil
	case PlanSP:
		esppOnly = true
	case PlanOther:
		esppOnly = false
	}

	buy, err := m.findPurchase(entry, sale.Investment, esppOnly, txs, warns)
	if err != nil {
		return Money{}, originUnset, date.Date{}, err
	}
	if buy == nil {
		warns.Addf(WarnNoFallback, "no purchase matching acquisition date %s (source %s), lot costed at zero", entry.AcquiredOn, entry.Source)
		return M(0, conv.currency()), OriginZero, date.Date{}, nil
	}
	if buy.Shares.IsZero() {
		warns.Addf(WarnZeroShares, "purchase on %s has no share count, lot sold %s costed at zero", buy.TradeDate, entry.SaleDate)
		return M(0, conv.currency()), OriginZero, date.Date{}, nil
	}

	warns.Addf(WarnMatchedCost, "lot sold %s: cost derived from purchase on %s", entry.SaleDate, buy.TradeDate)
	lotCostUSD := buy.AmountUSD.Abs().Mul(entry.Quantity).Div(buy.Shares.Abs())
	cost, rateDate, err := conv.ToLocal(lotCostUSD, buy.SettlementDate)
	if err != nil {
		return Money{}, originUnset, date.Date{}, fmt.Errorf("converting fallback cost for lot sold %s: %w", entry.SaleDate, err)
	}
	return cost, OriginMatchedPurchase, rateDate, nil
}

// findSale locates the sale record a manifest entry refers to: first by
// trade date, then by settlement date. When the entry carries a symbol the
// candidates narrow to records matching it before falling back to the
// unnarrowed set. Ties resolve to the first candidate in input order, or
// fail in strict mode.
func (m CustomMatcher) findSale(entry LotEntry, txs []ClassifiedTransaction, warns *Warnings) (*ClassifiedTransaction, error) {
	for _, bySettlement := range []bool{false, true} {
		var candidates []*ClassifiedTransaction
		for i := range txs {
			tx := &txs[i]
			if tx.Category != Sale {
				continue
			}
			on := tx.TradeDate
			if bySettlement {
				on = tx.SettlementDate
			}
			if on == entry.SaleDate {
				candidates = append(candidates, tx)
			}
		}
		if entry.Symbol != "" {
			if narrowed := narrowBySymbol(candidates, entry.Symbol); len(narrowed) > 0 {
				candidates = narrowed
			}
		}
		if len(candidates) == 0 {
			continue
		}
		if len(candidates) > 1 {
			if m.Strict {
				return nil, fmt.Errorf("ambiguous manifest entry: %d sale records match %s", len(candidates), entry.SaleDate)
			}
			warns.Addf(WarnAmbiguous, "%d sale records match %s, using the first", len(candidates), entry.SaleDate)
		}
		return candidates[0], nil
	}
	return nil, nil
}

// purchasePass selects which date a findPurchase pass compares against the
// manifest's acquisition date.
type purchasePass int

const (
	byTradeDate purchasePass = iota
	bySettlementDate
	// byEffectiveDate matches on the "AS OF" plan purchase date an ESPP buy
	// may carry in its type text. Manifests date SP lots by that plan date,
	// not by the day the shares landed in the account.
	byEffectiveDate
)

// findPurchase locates the purchase record backing a fallback cost, using
// the same trade-then-settlement date search as findSale, plus a last pass
// on the effective acquisition date for ESPP buys bought "AS OF" an
// earlier plan date.
func (m CustomMatcher) findPurchase(entry LotEntry, investment string, esppOnly bool, txs []ClassifiedTransaction, warns *Warnings) (*ClassifiedTransaction, error) {
	for _, pass := range []purchasePass{byTradeDate, bySettlementDate, byEffectiveDate} {
		var candidates []*ClassifiedTransaction
		for i := range txs {
			tx := &txs[i]
			if !tx.Category.IsPurchase() {
				continue
			}
			if esppOnly && tx.Category != PurchaseESPP {
				continue
			}
			if investment != "" && tx.Investment != investment {
				continue
			}
			var on date.Date
			switch pass {
			case byTradeDate:
				on = tx.TradeDate
			case bySettlementDate:
				on = tx.SettlementDate
			case byEffectiveDate:
				on = AcquisitionDate(tx.TransactionRecord)
			}
			if on == entry.AcquiredOn {
				candidates = append(candidates, tx)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		if len(candidates) > 1 {
			if m.Strict {
				return nil, fmt.Errorf("ambiguous manifest entry: %d purchase records match %s (source %s)", len(candidates), entry.AcquiredOn, entry.Source)
			}
			warns.Addf(WarnAmbiguous, "%d purchase records match %s (source %s), using the first", len(candidates), entry.AcquiredOn, entry.Source)
		}
		return candidates[0], nil
	}
	return nil, nil
}

// narrowBySymbol keeps candidates matching the manifest symbol, trying in
// order: ticker symbol, exact investment name, then a whole-word token in
// the investment name.
func narrowBySymbol(candidates []*ClassifiedTransaction, symbol string) []*ClassifiedTransaction {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	var bySym, byName, byToken []*ClassifiedTransaction
	for _, tx := range candidates {
		name := strings.ToUpper(strings.TrimSpace(tx.Investment))
		switch {
		case strings.ToUpper(strings.TrimSpace(tx.Symbol)) == upper:
			bySym = append(bySym, tx)
		case name == upper:
			byName = append(byName, tx)
		case hasToken(name, upper):
			byToken = append(byToken, tx)
		}
	}
	switch {
	case len(bySym) > 0:
		return bySym
	case len(byName) > 0:
		return byName
	}
	return byToken
}

func hasToken(name, token string) bool {
	for _, field := range strings.FieldsFunc(name, func(r rune) bool {
		return !('A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		if field == token {
			return true
		}
	}
	return false
}

// reconcile checks the global invariant between the two input files: for
// each sale date, manifest quantities should add up to the shares the
// history says were sold that day. A mismatch is a data-quality warning,
// not a hard failure; the run continues with what it can match.
func reconcile(entries []LotEntry, txs []ClassifiedTransaction, warns *Warnings) {
	byTrade := make(map[date.Date]Quantity)
	bySettlement := make(map[date.Date]Quantity)
	for _, tx := range txs {
		if tx.Category != Sale {
			continue
		}
		byTrade[tx.TradeDate] = byTrade[tx.TradeDate].Add(tx.Shares.Abs())
		bySettlement[tx.SettlementDate] = bySettlement[tx.SettlementDate].Add(tx.Shares.Abs())
	}

	manifest := make(map[date.Date]Quantity)
	var dates []date.Date
	for _, e := range entries {
		if e.SaleDate.IsZero() || !e.Quantity.IsPositive() {
			continue
		}
		if _, seen := manifest[e.SaleDate]; !seen {
			dates = append(dates, e.SaleDate)
		}
		manifest[e.SaleDate] = manifest[e.SaleDate].Add(e.Quantity)
	}

	for _, on := range dates {
		sold, ok := byTrade[on]
		if !ok || sold.IsZero() {
			sold, ok = bySettlement[on]
		}
		qty := manifest[on]
		switch {
		case !ok || sold.IsZero():
			warns.Addf(WarnReconcile, "manifest declares %s shares sold on %s but the history has no sale that day", qty, on)
		case qty.GreaterThan(sold):
			warns.Addf(WarnReconcile, "manifest quantity %s on %s exceeds the %s shares the history says were sold", qty, on, sold)
		}
	}
}
