package renderer

import (
	"fmt"
	"math"
	"text/template"

	"github.com/Rhymond/go-money"
)

// helpers are the functions available to every report template.
var helpers = template.FuncMap{
	"money": FormatMoney,
	"pct":   FormatPercent,
	"signedpct": func(v float64) string {
		return fmt.Sprintf("%+.2f%%", v*100)
	},
	"qty": func(v float64) string {
		return fmt.Sprintf("%g", v)
	},
}

// FormatMoney formats a major-unit amount with its currency symbol and
// locale conventions. Unknown currency codes fall back to a plain decimal.
func FormatMoney(v float64, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", v, currencyCode)
	}
	units := int64(math.Round(v * math.Pow10(cur.Fraction)))
	return money.New(units, currencyCode).Display()
}

// FormatPercent renders a fractional return as a percentage.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
