package engine

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/pokerpit/pokerpit/internal/deck"
)

var (
	// ErrNoActingSeat is returned when an action arrives with no seat to act.
	ErrNoActingSeat = errors.New("no seat is acting")
	// ErrIllegalAction is returned when the action kind is not in the legal set.
	ErrIllegalAction = errors.New("action not in legal set")
	// ErrIllegalAmount is returned when a bet or raise amount is out of bounds.
	ErrIllegalAmount = errors.New("amount outside legal bounds")
	// ErrHandComplete is returned when acting on or re-finalizing a finished hand.
	ErrHandComplete = errors.New("hand already complete")
	// ErrHandInProgress is returned when finalizing an unfinished hand.
	ErrHandInProgress = errors.New("hand still in progress")
	// ErrConservation indicates an engine bug: chips were created or destroyed.
	ErrConservation = errors.New("chip conservation violated")
)

// Hand is the authoritative state for one hand from blinds to payout. It owns
// its seats for the duration of the hand; callers pass clones and commit
// stacks back once the hand finalizes.
type Hand struct {
	ID         int
	Seats      []*Seat
	Button     int
	Street     Street
	Board      []deck.Card
	SmallBlind int
	BigBlind   int

	// Acting is the index of the seat due to act, or -1 when no action is
	// pending (between streets, or once the hand is over).
	Acting int

	// Events is the append-only action log, indices contiguous from 0.
	Events []ActionEvent

	deck        *deck.Deck
	round       roundState
	startStacks []int
	finalized   bool
}

// HandOption configures hand creation.
type HandOption func(*handConfig)

type handConfig struct {
	rng  *rand.Rand
	deck *deck.Deck
}

// WithRand makes the shuffle deterministic for tests. Without it the deck is
// shuffled from a cryptographically seeded source.
func WithRand(rng *rand.Rand) HandOption {
	return func(c *handConfig) { c.rng = rng }
}

// WithDeck supplies a pre-built deck, overriding the RNG entirely.
func WithDeck(d *deck.Deck) HandOption {
	return func(c *handConfig) { c.deck = d }
}

// NewHand starts a hand: per-hand seat fields are reset, blinds are posted as
// ActionEvents, two hole cards are dealt to every seat, and the acting pointer
// is set to the first seat to act preflop. Heads-up, the button posts the
// small blind and acts first preflop.
//
// Structural mistakes (too few seats, unfunded seats, button out of range)
// are programming errors and panic.
func NewHand(id int, seats []*Seat, button, smallBlind, bigBlind int, opts ...HandOption) *Hand {
	if len(seats) < 2 {
		panic("at least 2 seats required")
	}
	if button < 0 || button >= len(seats) {
		panic("button position out of range")
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		panic("invalid blinds")
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	d := cfg.deck
	if d == nil {
		d = deck.New(cfg.rng)
	}

	h := &Hand{
		ID:         id,
		Seats:      seats,
		Button:     button,
		Street:     Preflop,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		deck:       d,
		round:      newRoundState(len(seats), bigBlind),
	}

	h.startStacks = make([]int, len(seats))
	for i, s := range seats {
		if s.ID != i {
			panic("seats must be ordered by id")
		}
		if s.Stack <= 0 {
			panic("all seats must be funded")
		}
		s.Bet = 0
		s.TotalBet = 0
		s.Folded = false
		s.AllIn = false
		s.HoleCards = nil
		h.startStacks[i] = s.Stack
	}

	h.postBlinds()
	for _, s := range h.Seats {
		s.HoleCards = h.deck.Deal(2)
	}

	var first int
	if len(seats) == 2 {
		first = button
	} else {
		first = (button + 3) % len(seats)
	}
	h.Acting = h.nextToAct(first)

	// Blinds can put seats all-in before anyone acts.
	if h.Acting == -1 || h.roundComplete() {
		h.advanceStreet()
	}
	return h
}

func (h *Hand) postBlinds() {
	n := len(h.Seats)
	var sb, bb int
	if n == 2 {
		sb = h.Button
		bb = (h.Button + 1) % n
	} else {
		sb = (h.Button + 1) % n
		bb = (h.Button + 2) % n
	}
	h.postBlind(sb, h.SmallBlind)
	h.postBlind(bb, h.BigBlind)

	// The bet to match is the full big blind even when the blind was short.
	h.round.currentBet = h.BigBlind
}

func (h *Hand) postBlind(idx, amount int) {
	s := h.Seats[idx]
	paid := min(amount, s.Stack)
	s.Stack -= paid
	s.Bet += paid
	s.TotalBet += paid
	if s.Stack == 0 {
		s.AllIn = true
	}
	h.appendEvent(idx, Blind, paid)
}

// Pot returns the total chips committed to the hand so far.
func (h *Hand) Pot() int {
	pot := 0
	for _, s := range h.Seats {
		pot += s.TotalBet
	}
	return pot
}

// ToCall returns the chips the acting seat owes to continue, capped at its
// stack. Zero when no seat is acting.
func (h *Hand) ToCall() int {
	if h.Acting < 0 {
		return 0
	}
	s := h.Seats[h.Acting]
	return min(max(h.round.currentBet-s.Bet, 0), s.Stack)
}

// Apply validates and applies the acting seat's action, appends the
// ActionEvent, and advances the acting pointer, moving to the next street
// when the round completes. Illegal actions leave the hand untouched.
func (h *Hand) Apply(a Action) error {
	if h.IsComplete() {
		return ErrHandComplete
	}
	if h.Acting < 0 {
		return ErrNoActingSeat
	}
	seat := h.Seats[h.Acting]

	la, ok := findLegal(h.LegalActions(), a.Kind)
	if !ok {
		return fmt.Errorf("seat %d %s: %w", seat.ID, a.Kind, ErrIllegalAction)
	}

	recorded := 0
	switch a.Kind {
	case Fold:
		seat.Folded = true
		h.round.acted[h.Acting] = true
		if h.round.lastRaiser == h.Acting {
			h.round.lastRaiser = -1
		}

	case Check:
		h.round.acted[h.Acting] = true

	case Call:
		owed := min(h.round.currentBet-seat.Bet, seat.Stack)
		h.commit(seat, owed)
		h.round.acted[h.Acting] = true
		recorded = owed

	case Bet, Raise:
		if a.Amount < la.Min || a.Amount > la.Max {
			return fmt.Errorf("seat %d %s %d outside [%d,%d]: %w",
				seat.ID, a.Kind, a.Amount, la.Min, la.Max, ErrIllegalAmount)
		}
		// A raise below the formal minimum is only reachable as an all-in;
		// it does not reopen the action to seats that already acted.
		full := a.Amount >= h.round.currentBet+h.round.minRaise
		h.commit(seat, a.Amount-seat.Bet)
		if full {
			h.round.minRaise = a.Amount - h.round.currentBet
			h.round.reopen(h.Acting)
		} else {
			h.round.acted[h.Acting] = true
		}
		h.round.currentBet = a.Amount
		h.round.lastRaiser = h.Acting
		recorded = a.Amount

	default:
		return fmt.Errorf("seat %d %s: %w", seat.ID, a.Kind, ErrIllegalAction)
	}

	h.appendEvent(h.Acting, a.Kind, recorded)

	if h.foldedOutWinner() != -1 {
		h.Acting = -1
		return nil
	}

	next := h.nextToAct(h.Acting + 1)
	h.Acting = next
	if next == -1 || h.roundComplete() {
		h.advanceStreet()
	}
	return nil
}

func (h *Hand) commit(s *Seat, chips int) {
	s.Stack -= chips
	s.Bet += chips
	s.TotalBet += chips
	if s.Stack == 0 {
		s.AllIn = true
	}
}

func (h *Hand) appendEvent(seatIdx int, kind ActionKind, amount int) {
	s := h.Seats[seatIdx]
	h.Events = append(h.Events, ActionEvent{
		Index:    len(h.Events),
		Street:   h.Street,
		PlayerID: s.PlayerID,
		SeatID:   s.ID,
		Kind:     kind,
		Amount:   amount,
		PotAfter: h.Pot(),
	})
}

// nextToAct returns the first seat at or after from (wrapping) that can still
// act, or -1 when none can.
func (h *Hand) nextToAct(from int) int {
	n := len(h.Seats)
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if h.Seats[idx].CanAct() {
			return idx
		}
	}
	return -1
}

// advanceStreet moves to the next street, dealing board cards and resetting
// per-street trackers. When nobody is left to act it keeps dealing until the
// board is run out to showdown.
func (h *Hand) advanceStreet() {
	for {
		for _, s := range h.Seats {
			s.Bet = 0
		}
		h.round.reset(len(h.Seats), h.BigBlind)

		switch h.Street {
		case Preflop:
			h.Street = Flop
			h.Board = append(h.Board, h.deck.Deal(3)...)
		case Flop:
			h.Street = Turn
			h.Board = append(h.Board, h.deck.DealOne())
		case Turn:
			h.Street = River
			h.Board = append(h.Board, h.deck.DealOne())
		default:
			h.Street = Showdown
			h.Acting = -1
			return
		}

		h.Acting = h.nextToAct((h.Button + 1) % len(h.Seats))
		if h.Acting != -1 && !h.roundComplete() {
			return
		}
	}
}

// foldedOutWinner returns the sole non-folded seat, or -1 if the hand is
// still contested.
func (h *Hand) foldedOutWinner() int {
	winner := -1
	for i, s := range h.Seats {
		if s.Folded {
			continue
		}
		if winner != -1 {
			return -1
		}
		winner = i
	}
	return winner
}

// IsComplete reports whether the hand is over: showdown reached or all but
// one seat folded.
func (h *Hand) IsComplete() bool {
	return h.Street == Showdown || h.foldedOutWinner() != -1
}

func findLegal(las []LegalAction, kind ActionKind) (LegalAction, bool) {
	for _, la := range las {
		if la.Kind == kind {
			return la, true
		}
	}
	return LegalAction{}, false
}
