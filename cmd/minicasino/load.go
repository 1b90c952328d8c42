package main

import (
	"fmt"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/config"
)

// load reads the configuration file and applies the command line overrides.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.Seed != 0 {
		cfg.Seed = g.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// casinoConfig loads the configuration and converts it for a session.
func (g *Globals) casinoConfig() (*config.Config, casino.Config, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, casino.Config{}, err
	}
	cc, err := cfg.Casino()
	if err != nil {
		return nil, casino.Config{}, err
	}
	return cfg, cc, nil
}
