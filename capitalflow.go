package ppview

import "github.com/ppview/ppview/date"

// CapitalFlow sums the external capital that entered and left the portfolio
// inside a window.
type CapitalFlow struct {
	Deposited   float64
	Withdrawn   float64
	NetInvested float64
}

// CalculateCapitalFlow accounts DEPOSIT from accounts and DELIVERY_INBOUND
// from portfolios as capital in, REMOVAL/WITHDRAWAL and DELIVERY_OUTBOUND
// as capital out, for transactions inside [start, end] inclusive.
func CalculateCapitalFlow(state *PortfolioState, start, end date.Date) CapitalFlow {
	window := date.Range{From: start, To: end}
	var flow CapitalFlow

	for _, a := range state.Accounts {
		for _, tx := range a.Transactions {
			if !window.Contains(tx.Date) {
				continue
			}
			switch tx.Type {
			case Deposit:
				flow.Deposited += tx.Amount
			case Removal, Withdrawal:
				flow.Withdrawn += tx.Amount
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
				flow.Deposited += tx.Amount
			case DeliveryOutbound:
				flow.Withdrawn += tx.Amount
			}
		}
	}

	flow.NetInvested = flow.Deposited - flow.Withdrawn
	return flow
}
