package pit38

import (
	"strings"
	"time"

	"github.com/pit38/pit38/date"
)

// tPlusOneSince is the day the SEC moved US equity settlement from T+2 to T+1.
var tPlusOneSince = date.New(2024, time.May, 28)

// marketSettlementTags are the transaction types that settle on the market
// cycle. Everything else (vests, dividends, withholding, fees) settles on
// the trade date itself.
var marketSettlementTags = []string{"YOU BOUGHT", "YOU SOLD", "ESPP"}

// SettlementOn derives the settlement date of a record on the US
// settlement calendar: T+2 business days before the 2024-05-28 switch,
// T+1 on or after, and T+0 for corporate actions and cash events.
// It returns the zero date when the trade date itself is unusable.
func SettlementOn(tradeDate date.Date, rawType string) date.Date {
	if tradeDate.IsZero() {
		return date.Date{}
	}
	market := false
	for _, tag := range marketSettlementTags {
		if strings.Contains(rawType, tag) {
			market = true
			break
		}
	}
	if !market {
		return tradeDate
	}
	days := 2
	if !tradeDate.Before(tPlusOneSince) {
		days = 1
	}
	return date.AddBusinessDays(date.USSettlement{}, tradeDate, days)
}
