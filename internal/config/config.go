// Package config loads the table setup from an HCL file: one match block for
// the table parameters and a seat block per registered bot.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete simulation configuration.
type Config struct {
	Match MatchSettings  `hcl:"match,block"`
	Seats []SeatSettings `hcl:"seat,block"`
}

// MatchSettings contains the table-level parameters.
type MatchSettings struct {
	SmallBlind int    `hcl:"small_blind,optional"`
	BigBlind   int    `hcl:"big_blind,optional"`
	Hands      int    `hcl:"hands,optional"`
	TimeoutMs  int    `hcl:"timeout_ms,optional"`
	HistoryDir string `hcl:"history_dir,optional"`
	Seed       int    `hcl:"seed,optional"` // 0 selects a crypto-seeded shuffle
	LogLevel   string `hcl:"log_level,optional"`
}

// SeatSettings registers one bot at the table. Exactly one of Strategy (a
// built-in), Command (a subprocess bot) or URL (a websocket bot) must be set.
type SeatSettings struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy,optional"`
	Command  string   `hcl:"command,optional"`
	Args     []string `hcl:"args,optional"`
	URL      string   `hcl:"url,optional"`
	Protocol string   `hcl:"protocol,optional"`
	Stack    int      `hcl:"stack,optional"`
}

// Default returns the configuration used when no file is given: a heads-up
// match between the built-in calling station and the random bot.
func Default() *Config {
	cfg := &Config{
		Seats: []SeatSettings{
			{Name: "caller", Strategy: "caller"},
			{Name: "random", Strategy: "random"},
		},
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads and decodes an HCL configuration file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Parse decodes configuration from a byte slice, for tests and embedding.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Match.SmallBlind == 0 {
		cfg.Match.SmallBlind = 1
	}
	if cfg.Match.BigBlind == 0 {
		cfg.Match.BigBlind = cfg.Match.SmallBlind * 2
	}
	if cfg.Match.Hands == 0 {
		cfg.Match.Hands = 100
	}
	if cfg.Match.TimeoutMs == 0 {
		cfg.Match.TimeoutMs = 2000
	}
	if cfg.Match.LogLevel == "" {
		cfg.Match.LogLevel = "info"
	}
	for i := range cfg.Seats {
		if cfg.Seats[i].Stack == 0 {
			cfg.Seats[i].Stack = cfg.Match.BigBlind * 100
		}
	}
}

// Timeout returns the per-decision deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Match.TimeoutMs) * time.Millisecond
}

var validStrategies = map[string]bool{
	"folder": true,
	"caller": true,
	"random": true,
}

var validProtocols = map[string]bool{
	"":    true,
	"1.0": true,
	"2.0": true,
}

// Validate checks the configuration for structural mistakes.
func (c *Config) Validate() error {
	if c.Match.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.Match.SmallBlind)
	}
	if c.Match.BigBlind < c.Match.SmallBlind {
		return fmt.Errorf("big blind %d below small blind %d", c.Match.BigBlind, c.Match.SmallBlind)
	}
	if c.Match.Hands <= 0 {
		return fmt.Errorf("hands must be positive, got %d", c.Match.Hands)
	}
	if c.Match.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.Match.TimeoutMs)
	}

	if len(c.Seats) < 2 {
		return fmt.Errorf("at least two seats must be configured, got %d", len(c.Seats))
	}
	names := make(map[string]bool)
	for _, seat := range c.Seats {
		if names[seat.Name] {
			return fmt.Errorf("seat %q: duplicate name", seat.Name)
		}
		names[seat.Name] = true

		sources := 0
		for _, set := range []bool{seat.Strategy != "", seat.Command != "", seat.URL != ""} {
			if set {
				sources++
			}
		}
		if sources != 1 {
			return fmt.Errorf("seat %q: exactly one of strategy, command or url is required", seat.Name)
		}
		if seat.Strategy != "" && !validStrategies[seat.Strategy] {
			return fmt.Errorf("seat %q: unknown strategy %q", seat.Name, seat.Strategy)
		}
		if !validProtocols[seat.Protocol] {
			return fmt.Errorf("seat %q: unsupported protocol %q", seat.Name, seat.Protocol)
		}
		if seat.Stack <= 0 {
			return fmt.Errorf("seat %q: stack must be positive, got %d", seat.Name, seat.Stack)
		}
		if seat.Stack < c.Match.BigBlind {
			return fmt.Errorf("seat %q: stack %d cannot cover the big blind %d",
				seat.Name, seat.Stack, c.Match.BigBlind)
		}
	}
	return nil
}
