// Package match runs a sequence of hands between registered bots. The match
// owns the canonical seats and stacks across hands; every hand plays on seat
// clones and commits its result back in one step, so concurrent readers never
// observe a mid-hand stack.
package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/pokerpit/pokerpit/internal/botrt"
	"github.com/pokerpit/pokerpit/internal/engine"
)

// ErrMatchOver signals that no further hands can be dealt because a seat has
// run out of chips.
var ErrMatchOver = errors.New("match over")

// SeatConfig describes one registered player.
type SeatConfig struct {
	PlayerID string
	Name     string
	Stack    int
	Bot      botrt.Bot
}

// Config carries the table parameters. Zero values select the defaults:
// blinds 1/2, the default decision timeout, a discard logger, the real clock,
// a crypto-seeded shuffle, and no persistence.
type Config struct {
	SmallBlind int
	BigBlind   int
	Timeout    time.Duration
	Store      Store
	Logger     *log.Logger
	Clock      quartz.Clock
	Rand       *rand.Rand
}

// Match coordinates hands at one table.
type Match struct {
	id      string
	cfg     Config
	bots    []botrt.Bot
	invoker *botrt.Invoker
	logger  *log.Logger

	// playMu serializes hand play; mu guards the committed seat state so
	// Stacks and Seats stay consistent while a hand is in flight.
	playMu sync.Mutex
	mu     sync.RWMutex
	seats  []*engine.Seat
	button int
	handID int
}

// New validates the table setup and creates a match. The button starts on
// seat 0 and moves one seat per hand.
func New(id string, seats []SeatConfig, cfg Config) (*Match, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("match needs at least 2 seats, got %d", len(seats))
	}
	if cfg.SmallBlind == 0 && cfg.BigBlind == 0 {
		cfg.SmallBlind, cfg.BigBlind = 1, 2
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	m := &Match{
		id:     id,
		cfg:    cfg,
		logger: cfg.Logger.WithPrefix("match").With("table", id),
		button: len(seats) - 1, // first advance lands on seat 0
	}
	for i, sc := range seats {
		if sc.Stack <= 0 {
			return nil, fmt.Errorf("seat %d: stack must be positive, got %d", i, sc.Stack)
		}
		if sc.Bot == nil {
			return nil, fmt.Errorf("seat %d: no bot registered", i)
		}
		m.seats = append(m.seats, &engine.Seat{
			ID:       i,
			PlayerID: sc.PlayerID,
			Name:     sc.Name,
			Stack:    sc.Stack,
		})
		m.bots = append(m.bots, sc.Bot)
	}
	m.invoker = botrt.NewInvoker(cfg.Logger, cfg.Timeout, cfg.Clock)
	return m, nil
}

// PlayHand deals and plays one hand, commits the resulting stacks, and
// persists the record if a store is configured. It returns ErrMatchOver once
// any seat is out of chips.
func (m *Match) PlayHand() (*HandRecord, error) {
	m.playMu.Lock()
	defer m.playMu.Unlock()

	m.mu.RLock()
	clones := make([]*engine.Seat, len(m.seats))
	for i, s := range m.seats {
		if s.Stack <= 0 {
			m.mu.RUnlock()
			return nil, ErrMatchOver
		}
		clones[i] = s.Clone()
	}
	button := (m.button + 1) % len(m.seats)
	handID := m.handID + 1
	m.mu.RUnlock()

	var opts []engine.HandOption
	if m.cfg.Rand != nil {
		opts = append(opts, engine.WithRand(m.cfg.Rand))
	}
	h := engine.NewHand(handID, clones, button, m.cfg.SmallBlind, m.cfg.BigBlind, opts...)

	for !h.IsComplete() {
		res := m.invoker.Request(m.id, h, m.bots[h.Acting])
		if err := h.Apply(res.Action); err != nil {
			// The fallback is always legal, so this is an engine bug.
			return nil, fmt.Errorf("hand %d: apply %s: %w", handID, res.Action.Kind, err)
		}
	}

	res, err := h.Finalize()
	if err != nil {
		return nil, fmt.Errorf("hand %d: %w", handID, err)
	}
	rec := newRecord(h, res, m.cfg.Clock.Now())

	m.mu.Lock()
	for i, s := range m.seats {
		s.Stack = clones[i].Stack
	}
	m.button = button
	m.handID = handID
	m.mu.Unlock()

	if m.cfg.Store != nil {
		if err := m.cfg.Store.Save(rec); err != nil {
			return nil, err
		}
	}
	m.logger.Info("hand complete",
		"hand", rec.HandID, "pot", rec.Pot, "winners", rec.Winners)
	return rec, nil
}

// Play runs up to maxHands hands, stopping cleanly when a seat busts or the
// context is cancelled.
func (m *Match) Play(ctx context.Context, maxHands int) ([]*HandRecord, error) {
	var records []*HandRecord
	for i := 0; i < maxHands; i++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		rec, err := m.PlayHand()
		if errors.Is(err, ErrMatchOver) {
			m.logger.Info("match over", "hands", len(records))
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Stacks returns a snapshot of the committed stacks by seat id.
func (m *Match) Stacks() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stacks := make([]int, len(m.seats))
	for i, s := range m.seats {
		stacks[i] = s.Stack
	}
	return stacks
}

// HandsPlayed returns the number of completed hands.
func (m *Match) HandsPlayed() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handID
}
