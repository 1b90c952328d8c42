package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lox/minicasino/internal/fileutil"
)

// ConfigCmd inspects the effective configuration
type ConfigCmd struct {
	Print    ConfigPrintCmd    `cmd:"" default:"1" help:"Print the effective configuration as YAML"`
	Validate ConfigValidateCmd `cmd:"" help:"Check the configuration and exit"`
}

type ConfigPrintCmd struct {
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout"`
}

func (c *ConfigPrintCmd) Run(g *Globals) error {
	if c.Output == "" {
		return printConfig(os.Stdout, g)
	}
	return fileutil.WriteAtomic(c.Output, 0o644, func(w io.Writer) error {
		return printConfig(w, g)
	})
}

func printConfig(w io.Writer, g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

type ConfigValidateCmd struct{}

func (c *ConfigValidateCmd) Run(g *Globals) error {
	if _, err := g.load(); err != nil {
		return err
	}
	fmt.Printf("%s: OK\n", g.ConfigFile)
	return nil
}
