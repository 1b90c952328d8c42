package main

import (
	"os"

	"github.com/lox/minicasino/cmd/minicasino/shared"
	"github.com/lox/minicasino/internal/server"
)

// ServeCmd serves one session per WebSocket connection
type ServeCmd struct {
	Addr string `short:"a" help:"Server address to bind to (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, cc, err := g.casinoConfig()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.LogLevel)

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger.Info("Starting Mini Casino server",
		"addr", addr,
		"starting_balance", cc.StartingBalance,
		"default_bet", cc.DefaultBet,
		"seed", cc.Seed)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	s := server.NewServer(addr, cc, logger)
	return s.Start(ctx)
}
