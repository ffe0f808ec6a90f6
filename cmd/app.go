// Package cmd implements the CLI application to inspect a portfolio export.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/ppview/ppview"
	"github.com/ppview/ppview/ppxml"
	"github.com/ppview/ppview/session"
)

// Commands lists every subcommand. A main package registers them all and
// executes the user-selected one.
var Commands = []subcommands.Command{
	&valuationCmd{},
	&kpiCmd{},
	&seriesCmd{},
	&holdingsCmd{},
	&reportCmd{},
}

// as a CLI application it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "portfolio.xml", "Path to the Portfolio Performance XML export")
var verbose = flag.Bool("v", false, "Enable debug logging")
var strict = flag.Bool("strict", false, "Reject exports containing unknown transaction types")

// Logger builds the application logger according to the global flags.
func Logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// OpenState parses the configured XML export into a PortfolioState.
func OpenState() (*ppview.PortfolioState, error) {
	data, err := os.ReadFile(*portfolioFile)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio file: %w", err)
	}
	p := ppxml.NewParser()
	p.StrictTypes = *strict
	p.Log = Logger()
	state, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", *portfolioFile, err)
	}
	return state, nil
}

// OpenSession parses the export and loads it into a fresh computation
// session, going through the serialized boundary form the same way an
// embedding application would.
func OpenSession(ctx context.Context) (*session.Session, *ppview.PortfolioState, error) {
	state, err := OpenState()
	if err != nil {
		return nil, nil, err
	}
	blob, err := ppview.Serialize(state)
	if err != nil {
		return nil, nil, fmt.Errorf("serializing state: %w", err)
	}
	s := session.New(Logger())
	if err := s.Init(ctx, blob); err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("initializing session: %w", err)
	}
	return s, state, nil
}
