package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/date"
	"github.com/ppview/ppview/renderer"
)

// valuationCmd holds the flags for the 'valuation' subcommand.
type valuationCmd struct {
	date  string
	exact bool
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "display the portfolio valuation at a date" }
func (*valuationCmd) Usage() string {
	return `ppv valuation [-d <date>] [-exact]

  Displays the cash balance, security value and total value of the
  portfolio at the given date. By default the indexed fast path is used;
  -exact replays every transaction instead, which also applies the
  transaction-implied price fallback for securities without market prices.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the valuation.")
	f.BoolVar(&c.exact, "exact", false, "Replay transactions instead of using the index.")
}

func (c *valuationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	var v ppview.Valuation
	var currency string
	if c.exact {
		state, err := OpenState()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		v = ppview.Valuate(state, on)
		currency = state.BaseCurrency
	} else {
		s, state, err := OpenSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer s.Close()
		point, err := s.CalculateValuation(ctx, on)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		v = point.Valuation
		currency = state.BaseCurrency
	}

	fmt.Printf("Valuation on %s\n", on)
	fmt.Printf("  Cash Balance:   %s\n", renderer.FormatMoney(v.CashBalance, currency))
	fmt.Printf("  Security Value: %s\n", renderer.FormatMoney(v.SecurityValue, currency))
	fmt.Printf("  Total Value:    %s\n", renderer.FormatMoney(v.TotalValue, currency))
	return subcommands.ExitSuccess
}
