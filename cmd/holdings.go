package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/date"
	"github.com/ppview/ppview/renderer"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	date string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list the open positions at a date" }
func (*holdingsCmd) Usage() string {
	return `ppv holdings [-d <date>]

  Lists every security with a non-zero position at the given date, with
  its share count, latest known price and market value.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the positions.")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	state, err := OpenState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	holdings := ppview.HoldingsAt(state, on)
	if len(holdings) == 0 {
		fmt.Printf("No open positions on %s.\n", on)
		return subcommands.ExitSuccess
	}

	type row struct {
		name, isin   string
		shares       float64
		price, value float64
		priced       bool
	}
	var rows []row
	for id, shares := range holdings {
		r := row{shares: shares}
		if sec := state.Security(id); sec != nil {
			r.name, r.isin = sec.Name, sec.ISIN
			if price, ok := sec.Prices.ValueAsOf(on); ok {
				r.price, r.value, r.priced = price, shares*price, true
			}
		}
		rows = append(rows, r)
	}
	slices.SortFunc(rows, func(a, b row) int { return strings.Compare(a.name, b.name) })

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SECURITY\tISIN\tSHARES\tPRICE\tVALUE")
	for _, r := range rows {
		price, value := "-", "-"
		if r.priced {
			price = renderer.FormatMoney(r.price, state.BaseCurrency)
			value = renderer.FormatMoney(r.value, state.BaseCurrency)
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\n", r.name, r.isin, r.shares, price, value)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
