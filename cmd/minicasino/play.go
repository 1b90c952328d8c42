package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/minicasino/cmd/minicasino/shared"
	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/tui"
)

// PlayCmd runs a session in the terminal
type PlayCmd struct {
	LogFile string `default:"minicasino.log" help:"Write logs here while the UI owns the terminal (empty to discard)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, cc, err := g.casinoConfig()
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := shared.SetupLogger(out, cfg.LogLevel)

	session, err := casino.New(cc, casino.WithLogger(logger))
	if err != nil {
		return err
	}
	defer session.Close()
	logger.Info("Starting session", "seed", session.Seed(), "balance", session.Balance())

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	if err := tui.Run(ctx, session, logger); err != nil {
		return err
	}
	fmt.Printf("Thanks for playing. Final balance: $%d (seed %d)\n", session.Balance(), session.Seed())
	return nil
}
