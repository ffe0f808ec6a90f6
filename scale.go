package ppview

import "github.com/shopspring/decimal"

// Wire values in a Portfolio Performance export are integer-scaled: prices
// and share counts by 10^8, monetary amounts by 10^2. Descaling runs on
// exact decimals so that ingestion never accumulates binary floating point
// error; the resulting real-world magnitudes are stored as float64 in the
// domain model.
var (
	priceScale  = decimal.New(1, 8)
	shareScale  = decimal.New(1, 8)
	amountScale = decimal.New(1, 2)
)

// UnscalePrice converts a wire price (10^8 scaled) to its decimal magnitude.
func UnscalePrice(v int64) float64 {
	f, _ := decimal.NewFromInt(v).DivRound(priceScale, 10).Float64()
	return f
}

// UnscaleShares converts a wire share count (10^8 scaled) to its decimal magnitude.
func UnscaleShares(v int64) float64 {
	f, _ := decimal.NewFromInt(v).DivRound(shareScale, 10).Float64()
	return f
}

// UnscaleAmount converts a wire monetary amount (10^2 scaled) to its decimal magnitude.
func UnscaleAmount(v int64) float64 {
	f, _ := decimal.NewFromInt(v).DivRound(amountScale, 10).Float64()
	return f
}
