// Package date provides a day-granularity Date value type and the sorted
// date/value series the valuation engine is built on.
package date

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"time"
)

// Format is the ISO-8601 representation used for dates everywhere.
const Format = "2006-01-02"

// readFormat is permissive on read (allows single-digit month/day).
const readFormat = "2006-1-2"

// Date represents a calendar day. Time-of-day is deliberately not
// representable: every calculation in the engine compares dates only.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime returns the Date of t, discarding the time-of-day.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// time returns the canonical time.Time for that day (midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.time().Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 ordering d against x.
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// DaysBetween returns the absolute number of days separating a and b.
func DaysBetween(a, b Date) int {
	days := int(b.time().Sub(a.time()).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// String formats the date in its standard ISO form.
func (d Date) String() string { return d.time().Format(Format) }

// Parse parses a Date from a string. It is lenient: single-digit months and
// days are accepted, and a trailing time component ("2023-01-02T10:04:31")
// is discarded since only the day is significant.
func Parse(str string) (Date, error) {
	if i := strings.IndexByte(str, 'T'); i >= 0 {
		str = str[:i]
	}
	on, err := time.Parse(readFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readFormat, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error. Reserved for tests and constants.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalJSON encodes the date as an ISO-8601 JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// UnmarshalJSON decodes the date from a JSON string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	p, err := Parse(str)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

// Days iterates every calendar day from 'from' to 'to' inclusive.
func Days(from, to Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for on := from; !on.After(to); on = on.Add(1) {
			if !yield(on) {
				return
			}
		}
	}
}
