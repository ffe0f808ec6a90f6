package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ppview/ppview/date"
	"github.com/ppview/ppview/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	date string
	raw  bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the full portfolio summary report" }
func (*reportCmd) Usage() string {
	return `ppv report [-d <date>] [-raw]

  Renders the full summary report: valuation, performance over the common
  windows, risk figures, yearly returns and open positions. The report is
  rendered for the terminal; -raw prints the plain markdown instead.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the report.")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown without terminal styling.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, state, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	var performance []renderer.PerformanceRow
	first := state.OldestTransactionDate()
	if !first.IsZero() {
		windows := []struct {
			label string
			start date.Date
		}{
			{"Year to Date", date.New(on.Year(), 1, 1)},
			{"Inception", first},
		}
		for _, w := range windows {
			start := w.start
			if start.Before(first) {
				start = first
			}
			kpi, err := s.CalculateKPI(ctx, start, on)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error computing %s KPI: %v\n", w.label, err)
				return subcommands.ExitFailure
			}
			performance = append(performance, renderer.PerformanceRow{
				Label:    w.label,
				TWR:      kpi.TWR,
				IRR:      kpi.IRR,
				Invested: kpi.CapitalInvested,
			})
		}
	}

	markdown := renderer.RenderSummary(renderer.NewSummary(state, on, performance))
	if c.raw {
		fmt.Print(markdown)
		return subcommands.ExitSuccess
	}

	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		// Styling is cosmetic; degrade to plain markdown.
		fmt.Print(markdown)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
