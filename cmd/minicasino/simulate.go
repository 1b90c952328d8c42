package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/minicasino/cmd/minicasino/shared"
	"github.com/lox/minicasino/internal/fileutil"
	"github.com/lox/minicasino/internal/round"
	"github.com/lox/minicasino/internal/simulator"
)

// SimulateCmd drives every game with the autoplay policy
type SimulateCmd struct {
	Rounds      int           `short:"n" default:"1000" help:"Rounds per game per session"`
	Sessions    int           `default:"4" help:"Independent sessions, seeded consecutively"`
	Games       []string      `help:"Games to play: slots, blackjack, roulette, uno (default all)"`
	Parallelism int           `short:"p" default:"4" help:"Sessions to run at once"`
	Timeout     time.Duration `default:"5s" help:"Give up when a round makes no progress for this long"`
	Report      string        `type:"path" help:"Also write the results as JSON to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, cc, err := g.casinoConfig()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.LogLevel)

	seed := cc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	games := make([]round.Kind, 0, len(c.Games))
	for _, name := range c.Games {
		kind, err := round.ParseKind(name)
		if err != nil {
			return err
		}
		games = append(games, kind)
	}

	logger.Info("Starting simulation",
		"rounds", c.Rounds,
		"sessions", c.Sessions,
		"seed", seed)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	start := time.Now()
	report, err := simulator.New(simulator.Config{
		Casino:      cc,
		Games:       games,
		Rounds:      c.Rounds,
		Sessions:    c.Sessions,
		Seed:        seed,
		Parallelism: c.Parallelism,
		Timeout:     c.Timeout,
		Logger:      logger,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, report)
	if c.Report != "" {
		err := fileutil.WriteAtomic(c.Report, 0o644, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(report.Summary())
		})
		if err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Report)
	}
	fmt.Printf("\nCompleted in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
