package date

import (
	"testing"
	"time"
)

func TestNewNormalizes(t *testing.T) {
	// Out-of-range components roll over the same way time.Date does.
	if got, want := New(2024, 1, 32), New(2024, 2, 1); got != want {
		t.Errorf("New(2024,1,32) = %v want %v", got, want)
	}
	if got, want := New(2024, 13, 1), New(2025, 1, 1); got != want {
		t.Errorf("New(2024,13,1) = %v want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-01-02", New(2024, 1, 2), true},
		{"2024-1-2", New(2024, 1, 2), true},
		{"2024-01-02T00:00", New(2024, 1, 2), true},
		{"2024-07-31T23:59:59.000", New(2024, 7, 31), true},
		{"not a date", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("Parse(%q) = %v, %v want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("Parse(%q) = %v want error", tc.in, got)
		}
	}
}

func TestString(t *testing.T) {
	if got := New(2024, 1, 2).String(); got != "2024-01-02" {
		t.Errorf("String() = %q want 2024-01-02", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a, b := New(2024, 1, 2), New(2024, 1, 12)
	if got := DaysBetween(a, b); got != 10 {
		t.Errorf("DaysBetween = %v want 10", got)
	}
	// The distance is absolute, the order of arguments does not matter.
	if got := DaysBetween(b, a); got != 10 {
		t.Errorf("DaysBetween reversed = %v want 10", got)
	}
	// Feb 2024 has 29 days.
	if got := DaysBetween(New(2024, 2, 1), New(2024, 3, 1)); got != 29 {
		t.Errorf("DaysBetween over leap february = %v want 29", got)
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, 1, 2), New(2024, 1, 3)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before is inconsistent")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After is inconsistent")
	}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Error("Compare is inconsistent")
	}
}

func TestDaysIterator(t *testing.T) {
	var got []Date
	for d := range Days(New(2024, 2, 27), New(2024, 3, 1)) {
		got = append(got, d)
	}
	want := []Date{New(2024, 2, 27), New(2024, 2, 28), New(2024, 2, 29), New(2024, 3, 1)}
	if len(got) != len(want) {
		t.Fatalf("Days yielded %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days[%d] = %v want %v", i, got[i], want[i])
		}
	}
}

func TestMonthAccessor(t *testing.T) {
	d := New(2024, 8, 15)
	if d.Year() != 2024 || d.Month() != time.August || d.Day() != 15 {
		t.Errorf("accessors = %d %v %d", d.Year(), d.Month(), d.Day())
	}
}
