package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lox/minicasino/internal/config"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGlobalsOverrideConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "casino.hcl", `
log_level        = "warn"
starting_balance = 500
seed             = 9
`)
	g := &Globals{ConfigFile: path, LogLevel: "debug", Seed: 42}
	cfg, cc, err := g.casinoConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(42), cc.Seed)
	assert.Equal(t, 500, cc.StartingBalance)
}

func TestGlobalsRejectInvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "casino.yaml", "default_bet: -1\n")
	g := &Globals{ConfigFile: path}
	_, err := g.load()
	require.ErrorContains(t, err, "invalid configuration")
}

func TestPrintConfigRoundTrips(t *testing.T) {
	t.Parallel()

	g := &Globals{ConfigFile: filepath.Join(t.TempDir(), "missing.hcl")}
	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, g))
	assert.Contains(t, buf.String(), "starting_balance: 1000")

	var decoded config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, config.DefaultConfig().Slots.ReelStopsMS, decoded.Slots.ReelStopsMS)
}

func TestConfigPrintToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "effective.yaml")
	g := &Globals{ConfigFile: filepath.Join(dir, "missing.hcl"), Seed: 5}
	require.NoError(t, (&ConfigPrintCmd{Output: out}).Run(g))

	// The printed file loads back as the same configuration.
	reloaded, err := config.LoadConfig(out)
	require.NoError(t, err)
	assert.Equal(t, int64(5), reloaded.Seed)
	require.NoError(t, reloaded.Validate())
}
