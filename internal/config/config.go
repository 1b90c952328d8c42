// Package config loads casino settings from HCL or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/rules"
)

// Config represents the complete casino configuration. Settings where zero is
// meaningful are pointers so that an explicit 0 survives the defaults.
type Config struct {
	LogLevel        string `hcl:"log_level,optional" yaml:"log_level"`
	StartingBalance *int   `hcl:"starting_balance,optional" yaml:"starting_balance"`
	DefaultBet      int    `hcl:"default_bet,optional" yaml:"default_bet"`
	Seed            int64  `hcl:"seed,optional" yaml:"seed"`

	Server    *ServerSettings  `hcl:"server,block" yaml:"server"`
	Slots     *SlotsConfig     `hcl:"slots,block" yaml:"slots"`
	Blackjack *BlackjackConfig `hcl:"blackjack,block" yaml:"blackjack"`
	Roulette  *RouletteConfig  `hcl:"roulette,block" yaml:"roulette"`
	Uno       *UnoConfig       `hcl:"uno,block" yaml:"uno"`
}

// ServerSettings configures the WebSocket bridge
type ServerSettings struct {
	Address string `hcl:"address,optional" yaml:"address"`
	Port    int    `hcl:"port,optional" yaml:"port"`
}

// SlotsConfig defines the reel strip and payouts
type SlotsConfig struct {
	ReelStopsMS []int          `hcl:"reel_stops_ms,optional" yaml:"reel_stops_ms"`
	Symbols     []SymbolConfig `hcl:"symbol,block" yaml:"symbols"`
}

// SymbolConfig is one reel symbol
type SymbolConfig struct {
	Symbol string  `hcl:"symbol,label" yaml:"symbol"`
	Weight float64 `hcl:"weight" yaml:"weight"`
	Payout int     `hcl:"payout" yaml:"payout"`
}

// BlackjackConfig defines dealer timing
type BlackjackConfig struct {
	DealerDelayMS *int `hcl:"dealer_delay_ms,optional" yaml:"dealer_delay_ms"`
}

// RouletteConfig defines wheel and autoplay timing
type RouletteConfig struct {
	SpinMS             *int `hcl:"spin_ms,optional" yaml:"spin_ms"`
	AutoplayDelayMS    *int `hcl:"autoplay_delay_ms,optional" yaml:"autoplay_delay_ms"`
	AutoplayIntervalMS *int `hcl:"autoplay_interval_ms,optional" yaml:"autoplay_interval_ms"`
}

// UnoConfig defines the Uno table
type UnoConfig struct {
	HandSize           int  `hcl:"hand_size,optional" yaml:"hand_size"`
	BotDelayMS         *int `hcl:"bot_delay_ms,optional" yaml:"bot_delay_ms"`
	WinBonus           *int `hcl:"win_bonus,optional" yaml:"win_bonus"`
	AutoplayDelayMS    *int `hcl:"autoplay_delay_ms,optional" yaml:"autoplay_delay_ms"`
	AutoplayIntervalMS *int `hcl:"autoplay_interval_ms,optional" yaml:"autoplay_interval_ms"`
}

// DefaultConfig returns default casino configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func defaultSymbols() []SymbolConfig {
	reel := rules.DefaultReel()
	pay := rules.DefaultPaytable()
	out := make([]SymbolConfig, len(reel.Symbols))
	for i, s := range reel.Symbols {
		out[i] = SymbolConfig{Symbol: string(s), Weight: reel.Weights[i], Payout: pay[s]}
	}
	return out
}

// setDefault points p at v unless the file set it, zero included.
func setDefault(p **int, v int) {
	if *p == nil {
		*p = &v
	}
}

// applyDefaults fills every unset value with its default.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	setDefault(&c.StartingBalance, 1000)
	if c.DefaultBet == 0 {
		c.DefaultBet = 10
	}

	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Slots == nil {
		c.Slots = &SlotsConfig{}
	}
	if len(c.Slots.ReelStopsMS) == 0 {
		c.Slots.ReelStopsMS = []int{1000, 1200, 1400}
	}
	if len(c.Slots.Symbols) == 0 {
		c.Slots.Symbols = defaultSymbols()
	}

	if c.Blackjack == nil {
		c.Blackjack = &BlackjackConfig{}
	}
	setDefault(&c.Blackjack.DealerDelayMS, 1000)

	if c.Roulette == nil {
		c.Roulette = &RouletteConfig{}
	}
	setDefault(&c.Roulette.SpinMS, 3000)
	setDefault(&c.Roulette.AutoplayDelayMS, 2000)
	setDefault(&c.Roulette.AutoplayIntervalMS, 3000)

	if c.Uno == nil {
		c.Uno = &UnoConfig{}
	}
	if c.Uno.HandSize == 0 {
		c.Uno.HandSize = 7
	}
	setDefault(&c.Uno.BotDelayMS, 1000)
	setDefault(&c.Uno.WinBonus, 50)
	setDefault(&c.Uno.AutoplayDelayMS, 2500)
	setDefault(&c.Uno.AutoplayIntervalMS, 2500)
}

// LoadConfig loads configuration from an HCL file, or YAML when the file
// ends in .yaml or .yml. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	var config Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		diags = gohcl.DecodeBody(file.Body, nil, &config)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
	}

	config.applyDefaults()
	return &config, nil
}

// Validate validates the casino configuration
func (c *Config) Validate() error {
	if *c.StartingBalance < 0 {
		return fmt.Errorf("starting balance must not be negative: %d", *c.StartingBalance)
	}
	if c.DefaultBet <= 0 {
		return fmt.Errorf("default bet must be positive: %d", c.DefaultBet)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Slots.ReelStopsMS) != rules.Reels {
		return fmt.Errorf("slots: need %d reel stops, got %d", rules.Reels, len(c.Slots.ReelStopsMS))
	}
	for _, ms := range []*int{
		c.Blackjack.DealerDelayMS,
		c.Roulette.SpinMS, c.Roulette.AutoplayDelayMS, c.Roulette.AutoplayIntervalMS,
		c.Uno.BotDelayMS, c.Uno.AutoplayDelayMS, c.Uno.AutoplayIntervalMS,
	} {
		if *ms < 0 {
			return fmt.Errorf("delays must not be negative: %d", *ms)
		}
	}
	if *c.Roulette.AutoplayIntervalMS == 0 || *c.Uno.AutoplayIntervalMS == 0 {
		return errors.New("autoplay intervals must be positive")
	}

	cc, err := c.Casino()
	if err != nil {
		return err
	}
	if err := cc.Slots.Validate(); err != nil {
		return fmt.Errorf("slots: %w", err)
	}
	if err := cc.Uno.Validate(); err != nil {
		return fmt.Errorf("uno: %w", err)
	}
	return nil
}

// Casino converts the file settings into a session configuration.
func (c *Config) Casino() (casino.Config, error) {
	cc := casino.DefaultConfig()
	cc.StartingBalance = *c.StartingBalance
	cc.DefaultBet = c.DefaultBet
	cc.Seed = c.Seed

	if len(c.Slots.ReelStopsMS) != rules.Reels {
		return cc, fmt.Errorf("slots: need %d reel stops, got %d", rules.Reels, len(c.Slots.ReelStopsMS))
	}
	for i, ms := range c.Slots.ReelStopsMS {
		cc.Slots.Stops[i] = millis(ms)
	}
	reel := rules.Reel{}
	pay := rules.Paytable{}
	for _, s := range c.Slots.Symbols {
		if _, dup := pay[rules.Symbol(s.Symbol)]; dup {
			return cc, fmt.Errorf("slots: duplicate symbol %q", s.Symbol)
		}
		reel.Symbols = append(reel.Symbols, rules.Symbol(s.Symbol))
		reel.Weights = append(reel.Weights, s.Weight)
		pay[rules.Symbol(s.Symbol)] = s.Payout
	}
	cc.Slots.Reel = reel
	cc.Slots.Paytable = pay

	cc.Blackjack.DealerDelay = millis(*c.Blackjack.DealerDelayMS)
	cc.Roulette.Spin = millis(*c.Roulette.SpinMS)
	cc.RouletteAutoplay = casino.AutoplayConfig{
		Delay:    millis(*c.Roulette.AutoplayDelayMS),
		Interval: millis(*c.Roulette.AutoplayIntervalMS),
	}

	cc.Uno.HandSize = c.Uno.HandSize
	cc.Uno.BotDelay = millis(*c.Uno.BotDelayMS)
	cc.Uno.WinBonus = *c.Uno.WinBonus
	cc.UnoAutoplay = casino.AutoplayConfig{
		Delay:    millis(*c.Uno.AutoplayDelayMS),
		Interval: millis(*c.Uno.AutoplayIntervalMS),
	}
	return cc, nil
}

// GetServerAddress returns the full listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
