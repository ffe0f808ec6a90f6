package ppview

import (
	"slices"

	"github.com/ppview/ppview/date"
)

// Holdings replays BUY/SELL/DELIVERY_INBOUND/DELIVERY_OUTBOUND transactions
// up to and including 'on' and returns the net share count per security.
// Securities whose position nets to exactly zero are dropped.
func Holdings(txs []Transaction, on date.Date) map[string]float64 {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})

	holdings := make(map[string]float64)
	for _, tx := range sorted {
		if tx.Date.After(on) {
			continue
		}
		if tx.SecurityID == "" || tx.Shares == 0 {
			continue
		}
		sign := tx.Type.ShareEffect()
		if sign == 0 {
			continue
		}
		holdings[tx.SecurityID] += float64(sign) * tx.Shares
	}

	for id, shares := range holdings {
		if shares == 0 {
			delete(holdings, id)
		}
	}
	return holdings
}

// HoldingsAt is Holdings over the de-duplicated union of the state's
// account and portfolio transactions.
func HoldingsAt(state *PortfolioState, on date.Date) map[string]float64 {
	return Holdings(slices.Collect(state.AllTransactions()), on)
}
