package ppview

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ppview/ppview/date"
)

// Drawdown describes the largest peak-to-trough decline inside a window.
type Drawdown struct {
	MaxDrawdown         float64 // largest decline as a ratio of the peak
	LongestDrawdownDays int     // longest continuous time under a peak
}

// tradingDaysPerYear is the conventional annualization base for volatility.
const tradingDaysPerYear = 252

// CalculateMaxDrawdown scans the valuation at every date relevant to the
// window (all transaction dates, all price dates, plus the bounds itself),
// tracking the running peak, the deepest decline from it, and the longest
// continuous drawdown duration in days.
func CalculateMaxDrawdown(state *PortfolioState, start, end date.Date) Drawdown {
	window := date.Range{From: start, To: end}
	dates := relevantDates(state, window, true)

	var dd Drawdown
	var peak float64
	var drawdownStart date.Date

	for _, on := range dates {
		val := Valuate(state, on).TotalValue

		if val > peak {
			peak = val
			if !drawdownStart.IsZero() {
				days := date.DaysBetween(drawdownStart, on)
				dd.LongestDrawdownDays = max(dd.LongestDrawdownDays, days)
				drawdownStart = date.Date{}
			}
		} else if peak > 0 {
			drawdown := (peak - val) / peak
			dd.MaxDrawdown = math.Max(dd.MaxDrawdown, drawdown)
			if drawdownStart.IsZero() {
				drawdownStart = on
			}
		}
	}

	// Still under water at the end of the window.
	if !drawdownStart.IsZero() {
		days := date.DaysBetween(drawdownStart, end)
		dd.LongestDrawdownDays = max(dd.LongestDrawdownDays, days)
	}
	return dd
}

// CalculateVolatility computes the annualized volatility of the portfolio:
// the population standard deviation of day-over-day simple returns, sampled
// at every date a price exists inside the window, scaled by sqrt(252).
func CalculateVolatility(state *PortfolioState, start, end date.Date) float64 {
	window := date.Range{From: start, To: end}
	dates := relevantDates(state, window, false)
	if len(dates) < 2 {
		return 0
	}

	var returns []float64
	prev := Valuate(state, dates[0]).TotalValue
	for _, on := range dates[1:] {
		val := Valuate(state, on).TotalValue
		if prev > 0 {
			returns = append(returns, (val-prev)/prev)
		}
		prev = val
	}
	if len(returns) == 0 {
		return 0
	}

	return stat.PopStdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
}

// Annualize converts a return over 'days' days to its annual equivalent:
// (1+r)^(365.25/d) - 1.
func Annualize(r float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	years := float64(days) / 365.25
	return math.Pow(1+r, 1/years) - 1
}

// relevantDates collects the sorted unique dates inside the window at which
// the valuation can change: price dates always, transaction dates and the
// window bounds when includeTransactions is set.
func relevantDates(state *PortfolioState, window date.Range, includeTransactions bool) []date.Date {
	var series [][]date.Date

	for _, sec := range state.Securities {
		var days []date.Date
		for on := range sec.Prices.Values() {
			if window.Contains(on) {
				days = append(days, on)
			}
		}
		series = append(series, days)
	}

	if includeTransactions {
		var days []date.Date
		for tx := range state.AllTransactions() {
			if window.Contains(tx.Date) {
				days = append(days, tx.Date)
			}
		}
		series = append(series, days, []date.Date{window.From, window.To})
	}

	return date.Union(series...)
}
