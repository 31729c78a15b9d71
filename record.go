package pit38

import (
	"github.com/pit38/pit38/date"
)

// TransactionRecord is one row of the brokerage transaction history, after
// parsing. Raw text columns are kept as reported so classification can be
// recomputed from them at any time.
type TransactionRecord struct {
	TradeDate      date.Date // as reported; zero when the date column did not parse
	SettlementDate date.Date // derived, see SettlementOn; zero when underivable
	RawType        string    // transaction type, truncated at the first ';'
	Investment     string    // investment name; plan identifiers appear masked as a '#' run
	Symbol         string    // ticker symbol, may be empty
	Shares         Quantity
	HasShares      bool // false when the column held the empty marker
	AmountUSD      Money
	HasAmount      bool // false when the column held the empty marker
	Source         string // source file, for diagnostics only
	Line           int    // line in the source file, for diagnostics only
}

// Settled reports whether the record carries a usable settlement date.
// Records without one are excluded from year filtering and matching.
func (r TransactionRecord) Settled() bool { return !r.SettlementDate.IsZero() }
