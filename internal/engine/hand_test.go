package engine

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"testing"

	"github.com/pokerpit/pokerpit/internal/deck"
)

func testSeats(stacks ...int) []*Seat {
	seats := make([]*Seat, len(stacks))
	for i, chips := range stacks {
		seats[i] = &Seat{
			ID:       i,
			PlayerID: fmt.Sprintf("player-%d", i),
			Name:     fmt.Sprintf("Bot%d", i),
			Stack:    chips,
		}
	}
	return seats
}

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func mustApply(t *testing.T, h *Hand, a Action) {
	t.Helper()
	if err := h.Apply(a); err != nil {
		t.Fatalf("Apply(%v %d): %v", a.Kind, a.Amount, err)
	}
}

func card(s string) deck.Card {
	c, err := deck.Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func cards(codes ...string) []deck.Card {
	out := make([]deck.Card, len(codes))
	for i, s := range codes {
		out[i] = card(s)
	}
	return out
}

func TestHeadsUpBlindsAndOrder(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(1)))

	if h.Acting != 0 {
		t.Errorf("heads-up button should act first preflop, Acting = %d", h.Acting)
	}
	if h.Pot() != 3 {
		t.Errorf("Pot() = %d after blinds, want 3", h.Pot())
	}
	if h.Seats[0].Bet != 1 || h.Seats[1].Bet != 2 {
		t.Errorf("blinds posted as %d/%d, want 1/2", h.Seats[0].Bet, h.Seats[1].Bet)
	}

	if len(h.Events) != 2 {
		t.Fatalf("expected 2 blind events, got %d", len(h.Events))
	}
	for i, want := range []struct {
		seat, amount int
	}{{0, 1}, {1, 2}} {
		ev := h.Events[i]
		if ev.Kind != Blind || ev.SeatID != want.seat || ev.Amount != want.amount {
			t.Errorf("event %d = %v seat %d amount %d, want blind seat %d amount %d",
				i, ev.Kind, ev.SeatID, ev.Amount, want.seat, want.amount)
		}
	}

	for _, s := range h.Seats {
		if len(s.HoleCards) != 2 {
			t.Errorf("seat %d dealt %d hole cards, want 2", s.ID, len(s.HoleCards))
		}
	}
}

func TestThreeHandedBlindsAndOrder(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(100, 100, 100), 0, 1, 2, WithRand(testRNG(2)))

	if h.Seats[1].Bet != 1 {
		t.Errorf("seat 1 (button+1) should post small blind, bet = %d", h.Seats[1].Bet)
	}
	if h.Seats[2].Bet != 2 {
		t.Errorf("seat 2 (button+2) should post big blind, bet = %d", h.Seats[2].Bet)
	}
	if h.Acting != 0 {
		t.Errorf("UTG (button+3) should act first, Acting = %d", h.Acting)
	}
}

func TestLimpCheckToFlop(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(3)))

	mustApply(t, h, Action{Kind: Call})
	if h.Street != Preflop {
		t.Fatalf("big blind must get its option; street advanced to %v", h.Street)
	}
	if h.Acting != 1 {
		t.Fatalf("Acting = %d after limp, want 1", h.Acting)
	}

	mustApply(t, h, Action{Kind: Check})
	if h.Street != Flop {
		t.Fatalf("street = %v after limp-check, want flop", h.Street)
	}
	if h.Pot() != 4 {
		t.Errorf("Pot() = %d on flop, want 4", h.Pot())
	}
	if len(h.Board) != 3 {
		t.Errorf("board has %d cards on flop, want 3", len(h.Board))
	}
	if h.Acting != 1 {
		t.Errorf("heads-up big blind acts first postflop, Acting = %d", h.Acting)
	}
}

func TestBigBlindOptionRaise(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(4)))

	mustApply(t, h, Action{Kind: Call})
	mustApply(t, h, Action{Kind: Raise, Amount: 6})

	if h.Street != Preflop {
		t.Fatalf("street = %v, raise must keep the hand preflop", h.Street)
	}
	if h.Acting != 0 {
		t.Fatalf("Acting = %d after BB raise, want 0", h.Acting)
	}
	if got := h.ToCall(); got != 4 {
		t.Errorf("ToCall() = %d facing raise to 6, want 4", got)
	}
}

func TestFoldEndsHandImmediately(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(5)))

	mustApply(t, h, Action{Kind: Fold})

	if !h.IsComplete() {
		t.Fatal("hand should be complete after the only opponent folds")
	}
	if h.Acting != -1 {
		t.Errorf("Acting = %d on completed hand, want -1", h.Acting)
	}
	if len(h.Board) != 0 {
		t.Errorf("board dealt %d cards on preflop fold-out, want 0", len(h.Board))
	}

	res, err := h.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(res.Winners) != 1 || res.Winners[0] != 1 {
		t.Errorf("Winners = %v, want [1]", res.Winners)
	}
	if res.Payouts[1] != 3 {
		t.Errorf("winner payout = %d, want 3", res.Payouts[1])
	}
	if h.Seats[1].Stack != 201 || h.Seats[0].Stack != 199 {
		t.Errorf("stacks after fold-out = %d/%d, want 199/201",
			h.Seats[0].Stack, h.Seats[1].Stack)
	}
}

func TestIllegalActionLeavesHandUntouched(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(6)))

	events := len(h.Events)
	err := h.Apply(Action{Kind: Check}) // facing the big blind, check is illegal
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("Apply(check) error = %v, want ErrIllegalAction", err)
	}
	if h.Acting != 0 || len(h.Events) != events {
		t.Error("failed action must not mutate the hand")
	}

	err = h.Apply(Action{Kind: Raise, Amount: 3}) // below min raise-to of 4
	if !errors.Is(err, ErrIllegalAmount) {
		t.Fatalf("Apply(raise 3) error = %v, want ErrIllegalAmount", err)
	}

	err = h.Apply(Action{Kind: Raise, Amount: 500}) // beyond stack
	if !errors.Is(err, ErrIllegalAmount) {
		t.Fatalf("Apply(raise 500) error = %v, want ErrIllegalAmount", err)
	}
}

func TestAllInCallRunsOutBoard(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(50, 200), 0, 1, 2, WithRand(testRNG(7)))

	mustApply(t, h, Action{Kind: Raise, Amount: 50})
	if !h.Seats[0].AllIn {
		t.Fatal("seat 0 should be all-in after raising its full stack")
	}
	mustApply(t, h, Action{Kind: Call})

	if h.Street != Showdown {
		t.Fatalf("street = %v after all-in call, want showdown", h.Street)
	}
	if len(h.Board) != 5 {
		t.Fatalf("board has %d cards, want full runout of 5", len(h.Board))
	}

	res, err := h.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	total := 0
	for _, p := range res.Payouts {
		total += p
	}
	if total != 100 {
		t.Errorf("payouts sum to %d, want pot of 100", total)
	}
}

func TestShortAllInDoesNotReopenAction(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(100, 14, 100), 0, 1, 2, WithRand(testRNG(8)))

	mustApply(t, h, Action{Kind: Raise, Amount: 10}) // seat 0 (UTG)
	mustApply(t, h, Action{Kind: Raise, Amount: 14}) // seat 1 all-in, short of min raise-to 18
	if !h.Seats[1].AllIn {
		t.Fatal("seat 1 should be all-in")
	}
	mustApply(t, h, Action{Kind: Fold}) // seat 2

	if h.Acting != 0 {
		t.Fatalf("Acting = %d, want 0 facing the short all-in", h.Acting)
	}
	for _, la := range h.LegalActions() {
		if la.Kind == Raise {
			t.Fatal("short all-in must not reopen raising to a seat that already acted")
		}
	}

	mustApply(t, h, Action{Kind: Call})
	if h.Street != Showdown {
		t.Fatalf("street = %v, want showdown runout with one live seat", h.Street)
	}
}

func TestShortBigBlindAllInFromPost(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 1), 0, 1, 2, WithRand(testRNG(9)))

	if !h.Seats[1].AllIn {
		t.Fatal("seat 1 should be all-in from posting a short big blind")
	}
	if h.Acting != 0 {
		t.Fatalf("Acting = %d, want 0", h.Acting)
	}

	mustApply(t, h, Action{Kind: Call})
	if h.Street != Showdown {
		t.Fatalf("street = %v, want showdown", h.Street)
	}

	res, err := h.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	total := 0
	for _, p := range res.Payouts {
		total += p
	}
	if total != h.Pot() {
		t.Errorf("payouts %d != pot %d", total, h.Pot())
	}
}

func TestEventIndicesContiguous(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(10)))

	script := []Action{
		{Kind: Call},
		{Kind: Check},
		{Kind: Check},
		{Kind: Bet, Amount: 4},
		{Kind: Call},
		{Kind: Check},
		{Kind: Check},
		{Kind: Bet, Amount: 10},
		{Kind: Raise, Amount: 25},
		{Kind: Call},
	}
	for _, a := range script {
		mustApply(t, h, a)
	}
	if h.Street != Showdown {
		t.Fatalf("street = %v, want showdown", h.Street)
	}

	for i, ev := range h.Events {
		if ev.Index != i {
			t.Fatalf("event %d has index %d; indices must be contiguous from 0", i, ev.Index)
		}
	}
	if last := h.Events[len(h.Events)-1]; last.PotAfter != h.Pot() {
		t.Errorf("final PotAfter = %d, want %d", last.PotAfter, h.Pot())
	}
}

func TestFinalizeGuards(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(11)))
	if _, err := h.Finalize(); !errors.Is(err, ErrHandInProgress) {
		t.Fatalf("Finalize on live hand = %v, want ErrHandInProgress", err)
	}

	mustApply(t, h, Action{Kind: Fold})
	if _, err := h.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if _, err := h.Finalize(); !errors.Is(err, ErrHandComplete) {
		t.Fatalf("second Finalize = %v, want ErrHandComplete", err)
	}
}

// TestConservationRandomHands plays many randomly-driven hands and checks the
// invariants that must hold for every one of them.
func TestConservationRandomHands(t *testing.T) {
	t.Parallel()

	rng := testRNG(99)
	for i := 0; i < 500; i++ {
		stacks := []int{
			20 + rng.IntN(200),
			20 + rng.IntN(200),
			20 + rng.IntN(200),
		}
		button := rng.IntN(3)
		h := NewHand(i, testSeats(stacks...), button, 1, 2, WithRand(rng))

		before := stacks[0] + stacks[1] + stacks[2]
		for !h.IsComplete() {
			las := h.LegalActions()
			la := las[rng.IntN(len(las))]
			a := Action{Kind: la.Kind}
			if la.Kind == Bet || la.Kind == Raise {
				a.Amount = la.Min + rng.IntN(la.Max-la.Min+1)
			}
			mustApply(t, h, a)
		}

		res, err := h.Finalize()
		if err != nil {
			t.Fatalf("hand %d: Finalize: %v", i, err)
		}

		after := 0
		for _, s := range h.Seats {
			after += s.Stack
		}
		if before != after {
			t.Fatalf("hand %d: chips not conserved, %d before vs %d after", i, before, after)
		}
		for j, ev := range h.Events {
			if ev.Index != j {
				t.Fatalf("hand %d: event index %d at position %d", i, ev.Index, j)
			}
		}
		if len(res.Winners) == 0 {
			t.Fatalf("hand %d: no winners", i)
		}
	}
}
