package date

import "time"

// Calendar decides which days are business days for a given institution.
// The zero distinction that matters here: the calendar of the body that
// publishes exchange rates is not the calendar of the market where the
// trade settled, and the two may disagree by a day around local holidays.
type Calendar interface {
	// IsBusinessDay reports whether d is a working day on this calendar.
	IsBusinessDay(d Date) bool
}

// AddBusinessDays returns the date n business days away from d on the given
// calendar. n may be negative to walk backward. n == 0 returns d unchanged.
func AddBusinessDays(c Calendar, d Date, n int) Date {
	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	for n > 0 {
		d = d.Add(step)
		if c.IsBusinessDay(d) {
			n--
		}
	}
	return d
}

// easterSunday computes the Gregorian Easter Sunday for a year
// (anonymous Gregorian computus).
func easterSunday(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return New(year, time.Month(month), day)
}

// Poland is the calendar of Polish public holidays, the publishing calendar
// of the National Bank of Poland rate tables.
type Poland struct{}

func (Poland) IsBusinessDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	switch {
	case d.Month() == time.January && d.Day() == 1: // Nowy Rok
		return false
	case d.Month() == time.January && d.Day() == 6: // Trzech Kroli
		return false
	case d.Month() == time.May && d.Day() == 1:
		return false
	case d.Month() == time.May && d.Day() == 3:
		return false
	case d.Month() == time.August && d.Day() == 15:
		return false
	case d.Month() == time.November && d.Day() == 1:
		return false
	case d.Month() == time.November && d.Day() == 11:
		return false
	case d.Month() == time.December && d.Day() == 25:
		return false
	case d.Month() == time.December && d.Day() == 26:
		return false
	}
	easter := easterSunday(d.Year())
	switch d {
	case easter, easter.Add(1): // Wielkanoc, Poniedzialek Wielkanocny
		return false
	case easter.Add(49): // Zielone Swiatki
		return false
	case easter.Add(60): // Boze Cialo
		return false
	}
	return true
}

// USSettlement is the calendar US equity settlement runs on: federal
// holidays (shifted to the nearest weekday when they fall on a weekend)
// plus Good Friday.
type USSettlement struct{}

func (USSettlement) IsBusinessDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	if d == easterSunday(d.Year()).Add(-2) { // Good Friday
		return false
	}
	// Fixed-date holidays observe the nearest weekday.
	switch {
	case observed(d, time.January, 1): // New Year's Day
		return false
	case observed(d, time.June, 19) && d.Year() >= 2021: // Juneteenth
		return false
	case observed(d, time.July, 4): // Independence Day
		return false
	case observed(d, time.November, 11): // Veterans Day
		return false
	case observed(d, time.December, 25): // Christmas Day
		return false
	}
	// Floating holidays.
	switch {
	case d.Month() == time.January && nthWeekday(d, time.Monday, 3): // MLK Day
		return false
	case d.Month() == time.February && nthWeekday(d, time.Monday, 3): // Washington's Birthday
		return false
	case d.Month() == time.May && lastWeekday(d, time.Monday): // Memorial Day
		return false
	case d.Month() == time.September && nthWeekday(d, time.Monday, 1): // Labor Day
		return false
	case d.Month() == time.October && nthWeekday(d, time.Monday, 2): // Columbus Day
		return false
	case d.Month() == time.November && nthWeekday(d, time.Thursday, 4): // Thanksgiving
		return false
	}
	return true
}

// observed reports whether d is the observed weekday for the fixed holiday
// month/day: the day itself, the preceding Friday when it falls on a
// Saturday, or the following Monday when it falls on a Sunday.
// Next year's New Year's Day can be observed on December 31, hence the
// second probe.
func observed(d Date, month time.Month, day int) bool {
	for _, year := range []int{d.Year(), d.Year() + 1} {
		h := New(year, month, day)
		switch h.Weekday() {
		case time.Saturday:
			h = h.Add(-1)
		case time.Sunday:
			h = h.Add(1)
		}
		if d == h {
			return true
		}
	}
	return false
}

// nthWeekday reports whether d is the n-th given weekday of its month.
func nthWeekday(d Date, w time.Weekday, n int) bool {
	return d.Weekday() == w && (d.Day()-1)/7+1 == n
}

// lastWeekday reports whether d is the last given weekday of its month.
func lastWeekday(d Date, w time.Weekday) bool {
	return d.Weekday() == w && d.Add(7).Month() != d.Month()
}
