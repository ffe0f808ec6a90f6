package ppview

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/ppview/ppview/date"
)

// logger is the package observability channel. Unknown transaction types
// are reported here instead of failing a valuation; the default is silent.
var logger = zerolog.Nop()

// SetLogger installs the logger used for non-fatal engine diagnostics.
func SetLogger(l zerolog.Logger) { logger = l }

// Valuation is the point-in-time value of the portfolio.
type Valuation struct {
	CashBalance   float64
	SecurityValue float64
	TotalValue    float64
}

// Valuate computes the portfolio valuation on a date by direct replay of
// every transaction with date <= on. It is a pure function of the state:
// O(transactions) per call, no index required.
func Valuate(state *PortfolioState, on date.Date) Valuation {
	txs := slices.Collect(state.AllTransactions())

	var cash float64
	for _, tx := range txs {
		if tx.Date.After(on) {
			continue
		}
		sign, known := tx.Type.CashEffect()
		if !known {
			logger.Warn().
				Str("type", string(tx.Type)).
				Str("transaction", tx.ID).
				Msg("unknown transaction type ignored in valuation")
			continue
		}
		cash += float64(sign) * tx.Amount
	}

	securities := securitiesValue(state, txs, on)

	return Valuation{
		CashBalance:   cash,
		SecurityValue: securities,
		TotalValue:    cash + securities,
	}
}

// securitiesValue prices the holdings at 'on' with forward-fill, falling
// back to a transaction-implied price when the security has no market price
// at or before that date. A holding with neither contributes zero.
func securitiesValue(state *PortfolioState, txs []Transaction, on date.Date) float64 {
	holdings := Holdings(txs, on)

	implied := impliedPrices(txs, on)

	var total float64
	for secID, shares := range holdings {
		sec := state.Security(secID)
		if sec == nil {
			continue
		}
		price, ok := sec.Prices.ValueAsOf(on)
		if !ok {
			price, ok = implied[secID]
		}
		if !ok {
			continue
		}
		total += shares * price
	}
	return total
}

// impliedPrices derives a per-share price for each security from its most
// recent transaction (date <= on) with a positive share count:
// amount / shares. Only a strictly later transaction replaces the entry;
// on equal dates the first one seen is kept.
func impliedPrices(txs []Transaction, on date.Date) map[string]float64 {
	type point struct {
		on    date.Date
		price float64
	}
	latest := make(map[string]point)
	for _, tx := range txs {
		if tx.SecurityID == "" || tx.Shares <= 0 || tx.Date.After(on) {
			continue
		}
		if prev, ok := latest[tx.SecurityID]; ok && !tx.Date.After(prev.on) {
			continue
		}
		latest[tx.SecurityID] = point{on: tx.Date, price: tx.Amount / tx.Shares}
	}
	prices := make(map[string]float64, len(latest))
	for id, p := range latest {
		prices[id] = p.price
	}
	return prices
}
