package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are shared by every command.
type Globals struct {
	ConfigFile string `name:"config" short:"c" default:"minicasino.hcl" help:"Path to HCL or YAML configuration file"`
	LogLevel   string `short:"l" help:"Log level: debug, info, warn, error (overrides config)"`
	Seed       int64  `help:"Deterministic RNG seed (overrides config, 0 seeds from the clock)"`
	NoColor    bool   `help:"Disable colours"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve sessions over WebSocket"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds headlessly and report statistics"`
	Config   ConfigCmd        `cmd:"" help:"Print or validate the configuration"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("minicasino"),
		kong.Description("Slots, blackjack, roulette and Uno on one balance"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
