package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/date"
)

func day(y, m, d int) date.Date { return date.New(y, time.Month(m), d) }

func reportState() *ppview.PortfolioState {
	sec := &ppview.Security{ID: "sec-acme", Name: "ACME Corp", ISIN: "DE000ACME007", Currency: "EUR"}
	sec.Prices.Append(day(2024, 1, 2), 192.50)
	sec.Prices.Append(day(2024, 1, 4), 190.60)

	return &ppview.PortfolioState{
		BaseCurrency: "EUR",
		Securities:   map[string]*ppview.Security{sec.ID: sec},
		Accounts: []ppview.Account{{ID: "acc-1", Name: "Broker Cash", Transactions: []ppview.Transaction{
			{ID: "tx-deposit", Date: day(2024, 1, 2), Type: ppview.Deposit, Amount: 2000, Currency: "EUR"},
		}}},
		Portfolios: []ppview.Portfolio{{ID: "pf-1", Name: "Broker", Transactions: []ppview.Transaction{
			{ID: "tx-buy", Date: day(2024, 1, 2), Type: ppview.Buy, Amount: 1925, Currency: "EUR", SecurityID: sec.ID, Shares: 10},
		}}},
	}
}

func TestRenderSummary(t *testing.T) {
	s := NewSummary(reportState(), day(2024, 6, 30), []PerformanceRow{
		{Label: "Inception", TWR: -0.0095, IRR: -0.019, Invested: 2000},
	})

	got := RenderSummary(s)

	for _, want := range []string{
		"# Portfolio Summary on 2024-06-30",
		"## Valuation",
		"## Performance",
		"| Inception | -0.95% |",
		"## Risk",
		"## Holdings",
		"ACME Corp",
		"DE000ACME007",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "error") {
		t.Errorf("summary contains a template error:\n%s", got)
	}
}

func TestNewSummaryFigures(t *testing.T) {
	s := NewSummary(reportState(), day(2024, 6, 30), nil)

	if s.Currency != "EUR" {
		t.Errorf("Currency = %q want EUR", s.Currency)
	}
	if s.CashBalance != 75 {
		t.Errorf("CashBalance = %v want 75", s.CashBalance)
	}
	if len(s.Holdings) != 1 || s.Holdings[0].Shares != 10 {
		t.Fatalf("Holdings = %+v want one row of 10 shares", s.Holdings)
	}
	if len(s.Yearly) != 1 || s.Yearly[0].Year != 2024 {
		t.Errorf("Yearly = %+v want [2024]", s.Yearly)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		v    float64
		cur  string
		want string
	}{
		{1925, "EUR", "€1,925.00"},
		{0.1, "EUR", "€0.10"},
		{75, "ZZZ", "75.00 ZZZ"}, // unknown currency falls back to plain
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.v, tc.cur); got != tc.want {
			t.Errorf("FormatMoney(%v, %s) = %q want %q", tc.v, tc.cur, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.1552); got != "15.52%" {
		t.Errorf("FormatPercent = %q want 15.52%%", got)
	}
}
