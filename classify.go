package pit38

import (
	"regexp"
	"strings"
	"time"

	"github.com/pit38/pit38/date"
)

// Category is the semantic role of a transaction record. It is always
// derived from the record's raw type and investment name, never stored, so
// it reflects the current classification rules on every run.
type Category int

const (
	// Noise covers journal, transfer and exchange bookkeeping rows, and
	// any row whose type text is not recognized. Excluded from all tax
	// computation, retained for traceability.
	Noise Category = iota
	// Sale is a market sale of shares.
	Sale
	// Purchase is a market buy with cash, eligible for FIFO matching.
	Purchase
	// PurchaseRSU is a restricted stock vesting.
	PurchaseRSU
	// PurchaseESPP is an employee stock purchase plan buy.
	PurchaseESPP
	// DividendEquity is a cash dividend on an equity position.
	DividendEquity
	// DividendFund is a distribution from a fund or cash-sweep position.
	DividendFund
	// Reinvestment is a dividend reinvestment purchase. It is not a cash
	// distribution and never enters the dividend tax base.
	Reinvestment
	// ForeignTaxDividend is non-resident withholding on a dividend,
	// creditable against the flat-rate dividend tax.
	ForeignTaxDividend
	// ForeignTaxCapital is non-resident withholding outside a dividend
	// context, creditable against the capital-gains tax.
	ForeignTaxCapital
)

func (c Category) String() string {
	switch c {
	case Sale:
		return "sale"
	case Purchase:
		return "purchase"
	case PurchaseRSU:
		return "purchase-rsu"
	case PurchaseESPP:
		return "purchase-espp"
	case DividendEquity:
		return "dividend-equity"
	case DividendFund:
		return "dividend-fund"
	case Reinvestment:
		return "reinvestment"
	case ForeignTaxDividend:
		return "foreign-tax-dividend"
	case ForeignTaxCapital:
		return "foreign-tax-capital"
	case Noise:
		return "noise"
	default:
		return "unknown"
	}
}

// IsPurchase reports whether the category is any of the purchase kinds.
func (c Category) IsPurchase() bool {
	return c == Purchase || c == PurchaseRSU || c == PurchaseESPP
}

// IsDividend reports whether the category is a cash distribution.
func (c Category) IsDividend() bool {
	return c == DividendEquity || c == DividendFund
}

// DefaultFundMarkers are the uppercase substrings that tag an investment
// name as a fund or cash-sweep position rather than an equity.
var DefaultFundMarkers = []string{"FUND", "MMKT", "MONEY MARKET", "CASH RESERVES"}

// Classifier assigns a Category to each transaction record. The zero value
// uses the default fund-name markers.
type Classifier struct {
	// FundMarkers tags dividend rows as fund-like when the investment
	// name contains any of these uppercase substrings.
	FundMarkers []string
}

var asOfRE = regexp.MustCompile(`AS OF\s+(\S+)`)

// noisePrefixes are bookkeeping row types with no tax consequence.
var noisePrefixes = []string{"JOURNALED", "TRANSFERRED", "EXCHANGED"}

// Classify derives the category of a record from its raw type and
// investment name. It is a pure function; rows with unrecognized type text
// classify as Noise and the caller counts them through ClassifyAll.
func (c Classifier) Classify(r TransactionRecord) Category {
	t := r.RawType
	switch {
	case strings.Contains(t, "YOU SOLD"):
		return Sale
	case strings.Contains(t, "YOU BOUGHT"):
		switch {
		case strings.Contains(t, "ESPP"):
			return PurchaseESPP
		case strings.Contains(t, "RSU"):
			return PurchaseRSU
		}
		return Purchase
	// Withholding rows repeat the distribution text they relate to, so
	// this case must run before the dividend and reinvestment ones.
	case strings.Contains(t, "NON-RESIDENT TAX"):
		if strings.Contains(t, "DIVIDEND") || strings.Contains(t, "REINVESTMENT") {
			return ForeignTaxDividend
		}
		return ForeignTaxCapital
	case strings.Contains(t, "DIVIDEND RECEIVED"):
		if c.fundLike(r.Investment) {
			return DividendFund
		}
		return DividendEquity
	case strings.Contains(t, "REINVESTMENT"):
		return Reinvestment
	}
	return Noise
}

// fundLike tests an investment name against the fund-name pattern set.
func (c Classifier) fundLike(investment string) bool {
	markers := c.FundMarkers
	if markers == nil {
		markers = DefaultFundMarkers
	}
	name := strings.ToUpper(investment)
	for _, marker := range markers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// AcquisitionDate returns the effective acquisition date of a purchase
// record. ESPP buys may reference an earlier plan purchase with an
// "AS OF <date>" suffix in the type text; when present and parseable that
// date wins, otherwise the trade date stands.
func AcquisitionDate(r TransactionRecord) date.Date {
	m := asOfRE.FindStringSubmatch(r.RawType)
	if m == nil {
		return r.TradeDate
	}
	for _, layout := range []string{"Jan-02-2006", "01/02/2006", date.Format} {
		if on, err := time.Parse(layout, m[1]); err == nil {
			return date.New(on.Date())
		}
	}
	return r.TradeDate
}

// ClassifiedTransaction pairs a record with its derived category.
type ClassifiedTransaction struct {
	TransactionRecord
	Category Category
}

// ClassifyAll classifies every settled record and counts the rows whose
// type text fell through to Noise without matching a known noise prefix.
// Records without a settlement date are dropped with a counted warning;
// they cannot participate in year filtering or matching.
func (c Classifier) ClassifyAll(records []TransactionRecord, warns *Warnings) []ClassifiedTransaction {
	out := make([]ClassifiedTransaction, 0, len(records))
	for _, r := range records {
		if !r.Settled() {
			warns.Addf(WarnUnsettled, "record %s:%d has no settlement date, dropped", r.Source, r.Line)
			continue
		}
		cat := c.Classify(r)
		if cat == Noise && !knownNoise(r.RawType) {
			warns.Addf(WarnUnclassified, "unclassified transaction type %q on %s", r.RawType, r.TradeDate)
		}
		out = append(out, ClassifiedTransaction{TransactionRecord: r, Category: cat})
	}
	return out
}

func knownNoise(rawType string) bool {
	for _, p := range noisePrefixes {
		if strings.HasPrefix(rawType, p) {
			return true
		}
	}
	return false
}
