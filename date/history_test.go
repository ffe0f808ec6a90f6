package date

import "testing"

func TestHistoryAppendKeepsOrder(t *testing.T) {
	h := new(History[float64])
	d1, d2 := New(2025, 7, 1), New(2024, 7, 1)

	h.Append(d1, 1)
	h.Append(d2, 2)

	if h.Len() != 2 {
		t.Fatalf("Len() = %v want 2", h.Len())
	}
	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("days = %v want chronological order", h.days)
	}
	if h.values[0] != 2 || h.values[1] != 1 {
		t.Errorf("values = %v want reordered with their days", h.values)
	}
}

func TestHistoryAppendOverwritesSameDay(t *testing.T) {
	h := new(History[float64])
	d := New(2024, 3, 1)

	h.Append(d, 10)
	h.Append(d, 20)

	if h.Len() != 1 {
		t.Fatalf("Len() = %v want 1", h.Len())
	}
	if got, ok := h.Get(d); !ok || got != 20 {
		t.Errorf("Get = %v,%v want 20,true", got, ok)
	}
}

func TestHistoryAppendLatest(t *testing.T) {
	h := new(History[float64])
	d1, d2, d3 := New(2024, 1, 1), New(2024, 1, 2), New(2024, 1, 3)

	h.AppendLatest(d1, 1)
	h.AppendLatest(d2, 2)
	h.AppendLatest(d2, 20) // same day overwrites the last entry
	h.AppendLatest(d3, 3)

	if h.Len() != 3 {
		t.Fatalf("Len() = %v want 3", h.Len())
	}
	if got, _ := h.Get(d2); got != 20 {
		t.Errorf("Get(%v) = %v want 20", d2, got)
	}

	// An out-of-order day still lands in its chronological place.
	h.AppendLatest(New(2023, 12, 31), 0.5)
	if on, v := h.First(); on != New(2023, 12, 31) || v != 0.5 {
		t.Errorf("First() = %v,%v want 2023-12-31,0.5", on, v)
	}
	if on, v := h.Latest(); on != d3 || v != 3 {
		t.Errorf("Latest() = %v,%v want %v,3", on, v, d3)
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 2), 192.50)
	h.Append(New(2024, 1, 4), 190.60)

	cases := []struct {
		on    Date
		want  float64
		found bool
	}{
		{New(2024, 1, 1), 0, false},       // before first point
		{New(2024, 1, 2), 192.50, true},   // exact match
		{New(2024, 1, 3), 192.50, true},   // carried forward
		{New(2024, 1, 4), 190.60, true},   // exact match
		{New(2024, 12, 31), 190.60, true}, // carried past the end
	}
	for _, tc := range cases {
		got, found := h.ValueAsOf(tc.on)
		if found != tc.found || got != tc.want {
			t.Errorf("ValueAsOf(%v) = %v,%v want %v,%v", tc.on, got, found, tc.want, tc.found)
		}
	}
}

func TestHistoryFirstLatest(t *testing.T) {
	h := new(History[string])
	if on, v := h.Latest(); !on.IsZero() || v != "" {
		t.Errorf("Latest() on empty history = %v,%q want zero values", on, v)
	}

	h.Append(New(2024, 5, 1), "b")
	h.Append(New(2024, 1, 1), "a")

	if on, v := h.First(); on != New(2024, 1, 1) || v != "a" {
		t.Errorf("First() = %v,%v", on, v)
	}
	if on, v := h.Latest(); on != New(2024, 5, 1) || v != "b" {
		t.Errorf("Latest() = %v,%v", on, v)
	}
}

func TestUnion(t *testing.T) {
	a := []Date{New(2024, 1, 3), New(2024, 1, 1)}
	b := []Date{New(2024, 1, 2), New(2024, 1, 1)}

	got := Union(a, b)
	want := []Date{New(2024, 1, 1), New(2024, 1, 2), New(2024, 1, 3)}
	if len(got) != len(want) {
		t.Fatalf("Union = %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Union[%d] = %v want %v", i, got[i], want[i])
		}
	}
}
