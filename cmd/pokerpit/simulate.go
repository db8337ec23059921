package main

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/pokerpit/pokerpit/cmd/pokerpit/shared"
	"github.com/pokerpit/pokerpit/internal/botrt"
	"github.com/pokerpit/pokerpit/internal/bots"
	"github.com/pokerpit/pokerpit/internal/config"
	"github.com/pokerpit/pokerpit/internal/match"
)

type SimulateCmd struct {
	Config string `short:"c" default:"pokerpit.hcl" help:"HCL configuration file"`
	Hands  int    `help:"Override the configured number of hands"`
	Table  string `default:"table-1" help:"Table identifier"`
	Debug  bool   `help:"Verbose logging"`
}

func (cmd *SimulateCmd) Run() error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Hands > 0 {
		cfg.Match.Hands = cmd.Hands
	}
	if cmd.Debug {
		cfg.Match.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := shared.SetupLogger(cfg.Match.LogLevel)
	ctx := shared.SignalContext(logger)

	var rng *rand.Rand
	if cfg.Match.Seed != 0 {
		seed := uint64(cfg.Match.Seed)
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	seats := make([]match.SeatConfig, 0, len(cfg.Seats))
	for i, sc := range cfg.Seats {
		var bot botrt.Bot
		switch {
		case sc.Strategy != "":
			bot, err = bots.New(sc.Strategy, rng)
			if err != nil {
				return err
			}
		case sc.Command != "":
			sub, err := botrt.StartSubprocess(ctx, botrt.SubprocessConfig{
				Name:     sc.Name,
				Protocol: sc.Protocol,
				Command:  sc.Command,
				Args:     sc.Args,
			}, logger)
			if err != nil {
				return fmt.Errorf("seat %q: %w", sc.Name, err)
			}
			defer sub.Stop()
			bot = sub
		default:
			ws, err := botrt.DialWebsocketBot(ctx, sc.Name, sc.Protocol, sc.URL)
			if err != nil {
				return fmt.Errorf("seat %q: %w", sc.Name, err)
			}
			defer ws.Close()
			bot = ws
		}
		seats = append(seats, match.SeatConfig{
			PlayerID: fmt.Sprintf("player-%d", i),
			Name:     sc.Name,
			Stack:    sc.Stack,
			Bot:      bot,
		})
	}

	var store match.Store
	if cfg.Match.HistoryDir != "" {
		fileStore, err := match.NewFileStore(cfg.Match.HistoryDir)
		if err != nil {
			return err
		}
		store = fileStore
	}

	m, err := match.New(cmd.Table, seats, match.Config{
		SmallBlind: cfg.Match.SmallBlind,
		BigBlind:   cfg.Match.BigBlind,
		Timeout:    cfg.Timeout(),
		Store:      store,
		Logger:     logger,
		Rand:       rng,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	records, err := m.Play(ctx, cfg.Match.Hands)
	if err != nil {
		return err
	}

	fmt.Printf("Played %d hands in %v\n", len(records), time.Since(start).Round(time.Millisecond))
	for i, stack := range m.Stacks() {
		net := stack - seats[i].Stack
		fmt.Printf("  %-12s %6d chips (%+d)\n", seats[i].Name, stack, net)
	}
	return nil
}
