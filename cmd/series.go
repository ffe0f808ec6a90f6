package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ppview/ppview/date"
)

// seriesCmd holds the flags for the 'series' subcommand.
type seriesCmd struct {
	start string
	end   string
	step  int
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "print the valuation series over a date window" }
func (*seriesCmd) Usage() string {
	return `ppv series [-s <start>] [-e <end>] [-step <days>]

  Prints one valuation per step over the window as CSV, suitable for
  charting. The start defaults to the first transaction, the end to today.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start of the window. Defaults to the first transaction.")
	f.StringVar(&c.end, "e", date.Today().String(), "End of the window.")
	f.IntVar(&c.step, "step", 1, "Days between two points.")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.step < 1 {
		fmt.Fprintln(os.Stderr, "Error: -step must be at least 1")
		return subcommands.ExitUsageError
	}
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
	if start.IsZero() || end.Before(start) {
		fmt.Fprintln(os.Stderr, "Error: empty date window")
		return subcommands.ExitFailure
	}

	var dates []date.Date
	for d := start; !d.After(end); d = d.Add(c.step) {
		dates = append(dates, d)
	}

	points, err := s.CalculateValuationSeries(ctx, dates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("date,cash,securities,total")
	for _, p := range points {
		fmt.Printf("%s,%.2f,%.2f,%.2f\n", p.Date, p.CashBalance, p.SecurityValue, p.TotalValue)
	}
	return subcommands.ExitSuccess
}
