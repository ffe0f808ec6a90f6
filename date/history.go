package date

import (
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a
// specific day. Dates are unique and the series is always sorted, which is
// what makes the binary-search ValueAsOf lookup valid.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of points in the history.
func (h *History[T]) Len() int { return len(h.days) }

// First returns the earliest date and value, or zero values when empty.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value, or zero values when empty.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T)
	}
	return h.days[last], h.values[last]
}

// chronological adapts a History to sort.Interface keeping days and values aligned.
type chronological[T float32 | float64 | string] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

func (h *History[T]) sort() { sort.Sort(chronological[T]{h}) }

// Append adds a point to the history. An existing value at that date is
// overwritten: the last write for a day wins.
func (h *History[T]) Append(on Date, v T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = v
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, v)
	h.sort()
	return h
}

// AppendLatest adds a point known to be at or after every existing one: it
// overwrites the last entry when the day matches and appends otherwise,
// without scanning or re-sorting. Callers feeding already-chronological
// series (index builds, document loads) use it to keep those loops linear.
// An out-of-order day falls back to the general Append.
func (h *History[T]) AppendLatest(on Date, v T) *History[T] {
	if last := len(h.days) - 1; last >= 0 {
		switch {
		case on == h.days[last]:
			h.values[last] = v
			return h
		case on.Before(h.days[last]):
			return h.Append(on, v)
		}
	}
	h.days, h.values = append(h.days, on), append(h.values, v)
	return h
}

// Get returns the value recorded exactly at 'day', if any.
func (h *History[T]) Get(day Date) (T, bool) {
	if i := slices.Index(h.days, day); i >= 0 {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// ValueAsOf returns the value on a given day, or the most recent value
// before it (forward-fill). It returns the zero value and false when the
// history has no point on or before that day.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		return d.Compare(t)
	})
	if found {
		return h.values[i], true
	}
	// i is the insertion point; the entry before it is the last one <= day.
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}

// Values iterates all date/value pairs in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Days returns the sorted days of the history.
func (h *History[T]) Days() []Date { return slices.Clone(h.days) }

// Union returns the sorted, de-duplicated union of several date slices.
func Union(series ...[]Date) []Date {
	seen := make(map[Date]struct{})
	var all []Date
	for _, s := range series {
		for _, on := range s {
			if _, ok := seen[on]; !ok {
				seen[on] = struct{}{}
				all = append(all, on)
			}
		}
	}
	slices.SortFunc(all, Date.Compare)
	return all
}
