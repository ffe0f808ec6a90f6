package ppview

import (
	"time"

	"github.com/ppview/ppview/date"
)

// YearlyReturn is the TWR of one full calendar year.
type YearlyReturn struct {
	Year   int
	Return float64
}

// CalculateMonthlyReturns returns twelve TWR values, one per calendar month
// of the given year. Months are computed independently; a month whose
// calculation fails degrades to 0 rather than failing the whole series.
func CalculateMonthlyReturns(state *PortfolioState, year int) []float64 {
	returns := make([]float64, 0, 12)
	for month := time.January; month <= time.December; month++ {
		r := date.MonthRange(year, month)
		returns = append(returns, safeTWR(state, r.From, r.To))
	}
	return returns
}

// CalculateYearlyReturns computes the TWR of every full calendar year from
// the first year containing transactions through the year of 'today'. When
// the first transaction falls after mid-year the partial first year is
// skipped entirely, so a short stub period cannot masquerade as a full-year
// figure.
func CalculateYearlyReturns(state *PortfolioState, today date.Date) []YearlyReturn {
	first := state.OldestTransactionDate()
	if first.IsZero() {
		return nil
	}

	startYear := first.Year()
	if first.Month() > time.June {
		startYear++
	}

	var returns []YearlyReturn
	for year := startYear; year <= today.Year(); year++ {
		r := date.YearRange(year)
		returns = append(returns, YearlyReturn{
			Year:   year,
			Return: safeTWR(state, r.From, r.To),
		})
	}
	return returns
}

// safeTWR degrades a panicking TWR calculation to 0 for one period instead
// of propagating the failure across the series.
func safeTWR(state *PortfolioState, start, end date.Date) (twr float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().Interface("cause", r).
				Stringer("start", start).Stringer("end", end).
				Msg("periodic return degraded to zero")
			twr = 0
		}
	}()
	return CalculateTWR(state, start, end)
}
