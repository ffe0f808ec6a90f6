package ppview

import (
	"math"

	"github.com/ppview/ppview/date"
)

// Newton-Raphson parameters for the IRR solver.
const (
	irrInitialGuess    = 0.10
	irrMaxIterations   = 100
	irrTolerance       = 1e-7
	irrDerivativeFloor = 1e-10
	irrUnrealistic     = 10 // |irr| beyond +-1000% is not worth refining
)

type cashFlow struct {
	on     date.Date
	amount float64 // positive inflow, negative outflow
}

// CalculateIRR computes the money-weighted rate of return over [start, end]:
// the rate irr solving
//
//	MVB*(1+irr)^(RD/365) + sum CFi*(1+irr)^(RDi/365) = MVE
//
// where MVB/MVE are the total valuations at start/end, RD the day count of
// the window and RDi the day count from each flow to the end. Flows are
// DEPOSIT (+) and REMOVAL/WITHDRAWAL (-) from accounts, DELIVERY_INBOUND
// (+) and DELIVERY_OUTBOUND (-) from portfolios, dated strictly after start
// and up to end. Solved by Newton-Raphson from a 10% initial guess.
func CalculateIRR(state *PortfolioState, start, end date.Date) float64 {
	mvb := Valuate(state, start).TotalValue
	mve := Valuate(state, end).TotalValue

	flows := collectCashFlows(state, start, end)
	rd := float64(date.DaysBetween(start, end))

	npv := func(irr float64) float64 {
		result := mvb * math.Pow(1+irr, rd/365)
		for _, cf := range flows {
			rdi := float64(date.DaysBetween(cf.on, end))
			result += cf.amount * math.Pow(1+irr, rdi/365)
		}
		return result - mve
	}

	derivative := func(irr float64) float64 {
		result := mvb * (rd / 365) * math.Pow(1+irr, rd/365-1)
		for _, cf := range flows {
			rdi := float64(date.DaysBetween(cf.on, end))
			result += cf.amount * (rdi / 365) * math.Pow(1+irr, rdi/365-1)
		}
		return result
	}

	irr := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		df := derivative(irr)
		if math.Abs(df) < irrDerivativeFloor {
			// Derivative vanished, a Newton step would blow up.
			break
		}
		next := irr - npv(irr)/df
		if math.Abs(next-irr) < irrTolerance {
			return next
		}
		irr = next
		if math.Abs(irr) > irrUnrealistic {
			break
		}
	}
	return irr
}

// collectCashFlows gathers the external flows with date strictly after
// start and up to and including end.
func collectCashFlows(state *PortfolioState, start, end date.Date) []cashFlow {
	var flows []cashFlow
	in := func(on date.Date) bool { return on.After(start) && !on.After(end) }

	for _, a := range state.Accounts {
		for _, tx := range a.Transactions {
			if !in(tx.Date) {
				continue
			}
			switch tx.Type {
			case Deposit:
				flows = append(flows, cashFlow{tx.Date, tx.Amount})
			case Removal, Withdrawal:
				flows = append(flows, cashFlow{tx.Date, -tx.Amount})
			}
		}
	}
	for _, p := range state.Portfolios {
		for _, tx := range p.Transactions {
			if !in(tx.Date) {
				continue
			}
			switch tx.Type {
			case DeliveryInbound:
				flows = append(flows, cashFlow{tx.Date, tx.Amount})
			case DeliveryOutbound:
				flows = append(flows, cashFlow{tx.Date, -tx.Amount})
			}
		}
	}
	return flows
}
