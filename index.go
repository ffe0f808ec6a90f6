package ppview

import (
	"slices"

	"github.com/ppview/ppview/date"
)

// Index is the precomputed fast path for point valuations: a cumulative
// cash timeline and per-security cumulative holdings timelines, each sorted
// and unique by date, plus the (already sorted) price series. Point queries
// become binary searches instead of full replays: O(log T + S log P) per
// query after an O(T) build.
//
// Known divergence from Valuate: the fast path does not compute the
// transaction-implied price fallback. A holding with no market price at or
// before the query date contributes zero, so ValuateFast is a strict subset
// of the direct replay and only equivalent on dates where genuine market
// prices exist.
type Index struct {
	cash     date.History[float64]
	holdings map[string]*date.History[float64]
	first    date.Date
	last     date.Date
}

// BuildIndex constructs the valuation index from a state. It is built once
// per loaded dataset and never mutated afterwards.
func BuildIndex(state *PortfolioState) *Index {
	txs := slices.Collect(state.AllTransactions())
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})

	idx := &Index{holdings: make(map[string]*date.History[float64])}

	// Cumulative cash balance, same-day transactions collapsed into the
	// day's final value. Unknown types were already reported by the direct
	// path; the index just skips them.
	var cash float64
	for _, tx := range txs {
		sign, known := tx.Type.CashEffect()
		if !known {
			continue
		}
		cash += float64(sign) * tx.Amount
		idx.cash.AppendLatest(tx.Date, cash)
	}

	// Cumulative holdings per security, same rules as the replay path.
	running := make(map[string]float64)
	for _, tx := range txs {
		if tx.SecurityID == "" || tx.Shares == 0 {
			continue
		}
		sign := tx.Type.ShareEffect()
		if sign == 0 {
			continue
		}
		running[tx.SecurityID] += float64(sign) * tx.Shares
		h, ok := idx.holdings[tx.SecurityID]
		if !ok {
			h = &date.History[float64]{}
			idx.holdings[tx.SecurityID] = h
		}
		h.AppendLatest(tx.Date, running[tx.SecurityID])
	}

	if len(txs) > 0 {
		idx.first = txs[0].Date
		idx.last = txs[len(txs)-1].Date
	}
	return idx
}

// Bounds returns the dates of the first and last indexed transaction.
func (idx *Index) Bounds() (first, last date.Date) { return idx.first, idx.last }

// ValuateFast computes the valuation at 'on' from the index. Securities are
// looked up in the provided map for their price series.
func (idx *Index) ValuateFast(on date.Date, securities map[string]*Security) Valuation {
	cash, _ := idx.cash.ValueAsOf(on)

	var total float64
	for secID, timeline := range idx.holdings {
		shares, ok := timeline.ValueAsOf(on)
		if !ok || shares <= 0 {
			continue
		}
		sec := securities[secID]
		if sec == nil {
			continue
		}
		price, ok := sec.Prices.ValueAsOf(on)
		if !ok {
			// No implied-price fallback on the fast path.
			continue
		}
		total += shares * price
	}

	return Valuation{
		CashBalance:   cash,
		SecurityValue: total,
		TotalValue:    cash + total,
	}
}
