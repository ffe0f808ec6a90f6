package ppview

import "github.com/ppview/ppview/date"

// CalculateTWR computes the time-weighted return over [start, end] by
// day-by-day chain-linking. Each day's return is computed after
// neutralizing that day's external transferals, then compounded:
//
//	delta = (V(day) + outbound(day)) / (V(day-1) + inbound(day)) - 1
//	accumulated = (accumulated + 1) * (delta + 1) - 1
//
// Days with a non-positive denominator contribute zero. This per-day flow
// adjustment is what distinguishes TWR from the simple period-over-period
// returns used by the risk metrics.
func CalculateTWR(state *PortfolioState, start, end date.Date) float64 {
	inbound, outbound := dailyTransferals(state, start, end)

	valuation := Valuate(state, start).TotalValue
	accumulated := 0.0

	for day := range date.Days(start.Add(1), end) {
		thisValuation := Valuate(state, day).TotalValue

		denominator := valuation + inbound[day]
		delta := 0.0
		if denominator > 0 {
			delta = (thisValuation+outbound[day])/denominator - 1
		}
		accumulated = (accumulated+1)*(delta+1) - 1

		valuation = thisValuation
	}
	return accumulated
}

// dailyTransferals totals the external flows per day inside [start, end]:
// DEPOSIT (accounts) and DELIVERY_INBOUND (portfolios) as inbound,
// REMOVAL and DELIVERY_OUTBOUND as outbound.
func dailyTransferals(state *PortfolioState, start, end date.Date) (inbound, outbound map[date.Date]float64) {
	window := date.Range{From: start, To: end}
	inbound = make(map[date.Date]float64)
	outbound = make(map[date.Date]float64)

	for _, a := range state.Accounts {
		for _, tx := range a.Transactions {
			if !window.Contains(tx.Date) {
				continue
			}
			switch tx.Type {
			case Deposit:
				inbound[tx.Date] += tx.Amount
			case Removal:
				outbound[tx.Date] += tx.Amount
			}
		}
	}
	for _, p := range state.Portfolios {
		for _, tx := range p.Transactions {
			if !window.Contains(tx.Date) {
				continue
			}
			switch tx.Type {
			case DeliveryInbound:
				inbound[tx.Date] += tx.Amount
			case DeliveryOutbound:
				outbound[tx.Date] += tx.Amount
			}
		}
	}
	return inbound, outbound
}
