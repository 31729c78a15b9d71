package pit38

import (
	"fmt"

	"github.com/pit38/pit38/date"
	"github.com/shopspring/decimal"
)

// RateSource is the exchange-rate lookup collaborator. It returns the rate
// published on day d, or the most recent one before it, together with its
// actual publication date.
type RateSource interface {
	RateOnOrBefore(d date.Date) (rate float64, on date.Date, ok bool)
}

// defaultLookback bounds how many calendar days the converter walks
// backward from the reference date before declaring the rate missing.
const defaultLookback = 10

// Converter maps USD amounts to the local currency. The governing rule is
// that income and cost convert at the rate of the last business day
// strictly before the day the amount was received or incurred.
//
// "Business day" follows the publishing calendar of the rate source, not
// the brokerage's market calendar. The two can disagree by a day around
// local holidays; the rate-publisher's calendar governs here, and the
// Calendar field keeps the choice configurable.
type Converter struct {
	Rates    RateSource
	Calendar date.Calendar // publishing calendar; nil means date.Poland{}
	Currency string        // target currency; empty means PLN
	Lookback int           // calendar-day walkback bound; zero means defaultLookback
}

func (c *Converter) calendar() date.Calendar {
	if c.Calendar == nil {
		return date.Poland{}
	}
	return c.Calendar
}

func (c *Converter) currency() string {
	if c.Currency == "" {
		return "PLN"
	}
	return c.Currency
}

// ReferenceDate returns the rate date for an event: the last business day
// strictly before it on the publishing calendar.
func (c *Converter) ReferenceDate(event date.Date) date.Date {
	return date.AddBusinessDays(c.calendar(), event, -1)
}

// ToLocal converts a USD amount for an event on the given date. It returns
// the local-currency amount and the reference date the rate was looked up
// for. Conversion is never skippable: a rate missing within the bounded
// walkback window is a hard failure.
func (c *Converter) ToLocal(amount Money, event date.Date) (Money, date.Date, error) {
	ref := c.ReferenceDate(event)
	rate, on, ok := c.Rates.RateOnOrBefore(ref)
	if !ok {
		return Money{}, ref, fmt.Errorf("no %s rate published on or before %s (event on %s)", c.currency(), ref, event)
	}
	lookback := c.Lookback
	if lookback == 0 {
		lookback = defaultLookback
	}
	if on.Before(ref.Add(-lookback)) {
		return Money{}, ref, fmt.Errorf("no %s rate within %d days before %s: nearest is %s", c.currency(), lookback, ref, on)
	}
	local := Money{value: amount.value.Mul(decimal.NewFromFloat(rate)), cur: c.currency()}
	return local, ref, nil
}
