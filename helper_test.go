package ppview

import (
	"math"
	"time"

	"github.com/ppview/ppview/date"
)

func day(y, m, d int) date.Date { return date.New(y, time.Month(m), d) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// pricedState is a small portfolio with a full market price history:
// a 2000 EUR deposit funding a buy of 10 ACME at 192.50 on Jan 2, then a
// sell of 5 at 190.60 on Jan 4.
func pricedState() *PortfolioState {
	sec := &Security{ID: "sec-acme", Name: "ACME Corp", ISIN: "DE000ACME007", Currency: "EUR"}
	sec.Prices.Append(day(2024, 1, 2), 192.50)
	sec.Prices.Append(day(2024, 1, 4), 190.60)

	return &PortfolioState{
		BaseCurrency: "EUR",
		Securities:   map[string]*Security{sec.ID: sec},
		Accounts: []Account{{ID: "acc-1", Name: "Broker Cash", Transactions: []Transaction{
			{ID: "tx-deposit", Date: day(2024, 1, 2), Type: Deposit, Amount: 2000, Currency: "EUR"},
		}}},
		Portfolios: []Portfolio{{ID: "pf-1", Name: "Broker", Transactions: []Transaction{
			{ID: "tx-buy", Date: day(2024, 1, 2), Type: Buy, Amount: 1925, Currency: "EUR", SecurityID: sec.ID, Shares: 10},
			{ID: "tx-sell", Date: day(2024, 1, 4), Type: Sell, Amount: 953, Currency: "EUR", SecurityID: sec.ID, Shares: 5},
		}}},
	}
}

// unpricedState is the same buy without any market prices, so the security
// can only be valued through the transaction-implied price.
func unpricedState() *PortfolioState {
	sec := &Security{ID: "sec-acme", Name: "ACME Corp", ISIN: "DE000ACME007", Currency: "EUR"}

	return &PortfolioState{
		BaseCurrency: "EUR",
		Securities:   map[string]*Security{sec.ID: sec},
		Accounts: []Account{{ID: "acc-1", Name: "Broker Cash", Transactions: []Transaction{
			{ID: "tx-deposit", Date: day(2024, 1, 2), Type: Deposit, Amount: 2000, Currency: "EUR"},
		}}},
		Portfolios: []Portfolio{{ID: "pf-1", Name: "Broker", Transactions: []Transaction{
			{ID: "tx-buy", Date: day(2024, 1, 2), Type: Buy, Amount: 1925, Currency: "EUR", SecurityID: sec.ID, Shares: 10},
		}}},
	}
}

// cashOnlyState has a single deposit and no securities.
func cashOnlyState() *PortfolioState {
	return &PortfolioState{
		BaseCurrency: "EUR",
		Securities:   map[string]*Security{},
		Accounts: []Account{{ID: "acc-1", Name: "Savings", Transactions: []Transaction{
			{ID: "tx-deposit", Date: day(2024, 1, 2), Type: Deposit, Amount: 1000, Currency: "EUR"},
		}}},
	}
}
