package renderer

import (
	"slices"
	"strings"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/date"
)

// PerformanceRow is one named performance window in the summary report.
type PerformanceRow struct {
	Label    string
	TWR      float64
	IRR      float64
	Invested float64
}

// YearlyRow is one calendar-year return.
type YearlyRow struct {
	Year   int
	Return float64
}

// HoldingRow is one open position at the report date.
type HoldingRow struct {
	Name   string
	ISIN   string
	Shares float64
	Value  float64
}

// Summary aggregates everything the summary report shows.
type Summary struct {
	Date     date.Date
	Currency string

	CashBalance   float64
	SecurityValue float64
	TotalValue    float64

	Performance []PerformanceRow

	MaxDrawdown         float64
	LongestDrawdownDays int
	Volatility          float64

	Yearly   []YearlyRow
	Holdings []HoldingRow
}

// NewSummary computes the report figures from the state at the given date.
// Performance windows are computed by the caller (they depend on which
// periods the caller cares about) and passed in.
func NewSummary(state *ppview.PortfolioState, on date.Date, performance []PerformanceRow) *Summary {
	s := &Summary{
		Date:        on,
		Currency:    state.BaseCurrency,
		Performance: performance,
	}

	v := ppview.Valuate(state, on)
	s.CashBalance = v.CashBalance
	s.SecurityValue = v.SecurityValue
	s.TotalValue = v.TotalValue

	first := state.OldestTransactionDate()
	if !first.IsZero() {
		dd := ppview.CalculateMaxDrawdown(state, first, on)
		s.MaxDrawdown = dd.MaxDrawdown
		s.LongestDrawdownDays = dd.LongestDrawdownDays
		s.Volatility = ppview.CalculateVolatility(state, first, on)
	}

	for _, y := range ppview.CalculateYearlyReturns(state, on) {
		s.Yearly = append(s.Yearly, YearlyRow{Year: y.Year, Return: y.Return})
	}

	holdings := ppview.HoldingsAt(state, on)
	for id, shares := range holdings {
		row := HoldingRow{Shares: shares}
		if sec := state.Security(id); sec != nil {
			row.Name = sec.Name
			row.ISIN = sec.ISIN
			if price, ok := sec.Prices.ValueAsOf(on); ok {
				row.Value = shares * price
			}
		}
		s.Holdings = append(s.Holdings, row)
	}
	slices.SortFunc(s.Holdings, func(a, b HoldingRow) int {
		return strings.Compare(a.Name, b.Name)
	})
	return s
}

// RenderSummary renders the Summary struct to a markdown string.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_title":       "summary_title.md",
		"summary_valuation":   "summary_valuation.md",
		"summary_performance": "summary_performance.md",
		"summary_risk":        "summary_risk.md",
		"summary_yearly":      "summary_yearly.md",
		"summary_holdings":    "summary_holdings.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}
