package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ppview/ppview/date"
	"github.com/ppview/ppview/renderer"
)

// kpiCmd holds the flags for the 'kpi' subcommand.
type kpiCmd struct {
	start string
	end   string
}

func (*kpiCmd) Name() string     { return "kpi" }
func (*kpiCmd) Synopsis() string { return "compute performance figures over a date window" }
func (*kpiCmd) Usage() string {
	return `ppv kpi [-s <start>] [-e <end>]

  Computes the net asset value, time-weighted return, internal rate of
  return and net invested capital over the window. The start defaults to
  the first transaction, the end to today.
`
}

func (c *kpiCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start of the window. Defaults to the first transaction.")
	f.StringVar(&c.end, "e", date.Today().String(), "End of the window.")
}

func (c *kpiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	end, err := date.Parse(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, state, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	start := state.OldestTransactionDate()
	if c.start != "" {
		if start, err = date.Parse(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if start.IsZero() {
		fmt.Fprintln(os.Stderr, "Error: the portfolio has no transactions")
		return subcommands.ExitFailure
	}

	kpi, err := s.CalculateKPI(ctx, start, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("KPI %s .. %s\n", kpi.StartDate, kpi.EndDate)
	fmt.Printf("  NAV:           %s\n", renderer.FormatMoney(kpi.NAV, state.BaseCurrency))
	fmt.Printf("  TWR:           %+.2f%%\n", kpi.TWR*100)
	fmt.Printf("  IRR:           %+.2f%%\n", kpi.IRR*100)
	fmt.Printf("  Net Invested:  %s\n", renderer.FormatMoney(kpi.CapitalInvested, state.BaseCurrency))
	fmt.Printf("  Computed in:   %s\n", kpi.Duration)
	return subcommands.ExitSuccess
}
