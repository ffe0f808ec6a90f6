package ppview

import "testing"

// Both valuation paths must agree wherever market prices exist.
func TestValuateFastMatchesDirectReplay(t *testing.T) {
	state := pricedState()
	idx := BuildIndex(state)

	for _, on := range []struct{ y, m, d int }{
		{2024, 1, 1}, {2024, 1, 2}, {2024, 1, 3}, {2024, 1, 4}, {2024, 3, 15},
	} {
		d := day(on.y, on.m, on.d)
		direct := Valuate(state, d)
		fast := idx.ValuateFast(d, state.Securities)
		if !approx(direct.CashBalance, fast.CashBalance) {
			t.Errorf("%s: CashBalance direct %v fast %v", d, direct.CashBalance, fast.CashBalance)
		}
		if !approx(direct.SecurityValue, fast.SecurityValue) {
			t.Errorf("%s: SecurityValue direct %v fast %v", d, direct.SecurityValue, fast.SecurityValue)
		}
		if !approx(direct.TotalValue, fast.TotalValue) {
			t.Errorf("%s: TotalValue direct %v fast %v", d, direct.TotalValue, fast.TotalValue)
		}
	}
}

// The indexed path only prices against market data; securities without any
// price history value at zero, unlike the replay path's implied price.
func TestValuateFastNoImpliedPrice(t *testing.T) {
	state := unpricedState()
	idx := BuildIndex(state)

	fast := idx.ValuateFast(day(2024, 1, 2), state.Securities)
	if !approx(fast.SecurityValue, 0) {
		t.Errorf("SecurityValue = %v want 0 without market prices", fast.SecurityValue)
	}
	if !approx(fast.CashBalance, 75) {
		t.Errorf("CashBalance = %v want 75", fast.CashBalance)
	}
}

func TestIndexBounds(t *testing.T) {
	state := pricedState()
	idx := BuildIndex(state)

	first, last := idx.Bounds()
	if first != day(2024, 1, 2) {
		t.Errorf("first = %v want 2024-01-02", first)
	}
	if last != day(2024, 1, 4) {
		t.Errorf("last = %v want 2024-01-04", last)
	}
}

// Several transactions on the same day collapse to one cumulative point.
func TestIndexCollapsesSameDay(t *testing.T) {
	state := pricedState()
	idx := BuildIndex(state)

	v := idx.ValuateFast(day(2024, 1, 2), state.Securities)
	if !approx(v.CashBalance, 75) {
		t.Errorf("CashBalance = %v want 75 (deposit and buy folded)", v.CashBalance)
	}
	if !approx(v.SecurityValue, 1925) {
		t.Errorf("SecurityValue = %v want 1925", v.SecurityValue)
	}
}
