package date

import "time"

// Range represents an inclusive range of days.
type Range struct{ From, To Date }

// Contains reports whether 'on' falls inside the range, bounds included.
func (r Range) Contains(on Date) bool {
	return !on.Before(r.From) && !on.After(r.To)
}

// Days returns the number of days covered by the range.
func (r Range) Days() int { return DaysBetween(r.From, r.To) }

// MonthRange returns the full calendar month range for year/month.
func MonthRange(year int, month time.Month) Range {
	from := New(year, month, 1)
	to := New(year, month+1, 1).Add(-1)
	return Range{From: from, To: to}
}

// YearRange returns the full calendar year range.
func YearRange(year int) Range {
	return Range{From: New(year, time.January, 1), To: New(year, time.December, 31)}
}
