package engine

import (
	"testing"
)

func legalByKind(las []LegalAction) map[ActionKind]LegalAction {
	m := make(map[ActionKind]LegalAction, len(las))
	for _, la := range las {
		m[la.Kind] = la
	}
	return m
}

func TestLegalActionsFacingBigBlind(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(20)))
	las := legalByKind(h.LegalActions())

	if _, ok := las[Fold]; !ok {
		t.Error("fold must always be legal")
	}
	if _, ok := las[Check]; ok {
		t.Error("check offered while owing to the big blind")
	}
	if call, ok := las[Call]; !ok || call.Min != 1 || call.Max != 1 {
		t.Errorf("call = %+v, want exactly 1", call)
	}
	if raise, ok := las[Raise]; !ok || raise.Min != 4 || raise.Max != 200 {
		t.Errorf("raise = %+v, want min 4 max 200", raise)
	}
	if _, ok := las[Bet]; ok {
		t.Error("bet offered while a bet (the blind) already stands")
	}
}

func TestLegalActionsUnopenedStreet(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(21)))
	mustApply(t, h, Action{Kind: Call})
	mustApply(t, h, Action{Kind: Check})

	// Flop, big blind first, nothing to call.
	las := legalByKind(h.LegalActions())
	if _, ok := las[Check]; !ok {
		t.Error("check must be legal with no outstanding bet")
	}
	if _, ok := las[Call]; ok {
		t.Error("call offered with nothing owed")
	}
	if bet, ok := las[Bet]; !ok || bet.Min != 2 || bet.Max != 198 {
		t.Errorf("bet = %+v, want min 2 max 198", bet)
	}
	if _, ok := las[Raise]; ok {
		t.Error("raise offered before any bet this street")
	}
}

func TestCallCappedAtStack(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 10), 0, 1, 2, WithRand(testRNG(22)))
	mustApply(t, h, Action{Kind: Raise, Amount: 50})

	las := legalByKind(h.LegalActions())
	if call, ok := las[Call]; !ok || call.Min != 8 || call.Max != 8 {
		t.Errorf("call = %+v, want capped at remaining stack of 8", call)
	}
	if _, ok := las[Raise]; ok {
		t.Error("raise offered to a seat that cannot exceed the current bet")
	}
}

func TestShortAllInRaiseCappedBelowMinimum(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 30), 0, 1, 2, WithRand(testRNG(23)))
	mustApply(t, h, Action{Kind: Raise, Amount: 20})

	// Seat 1 has 28 behind plus 2 posted: above the current bet of 20 but
	// short of the formal min raise-to of 38. All-in raise only.
	las := legalByKind(h.LegalActions())
	raise, ok := las[Raise]
	if !ok {
		t.Fatal("short all-in raise should be offered")
	}
	if raise.Min != 30 || raise.Max != 30 {
		t.Errorf("raise = %+v, want all-in 30 only", raise)
	}
}

func TestMinMaxRaiseToHelpers(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(24)))
	if got := h.MinRaiseTo(); got != 4 {
		t.Errorf("MinRaiseTo() = %d, want 4", got)
	}
	if got := h.MaxRaiseTo(); got != 200 {
		t.Errorf("MaxRaiseTo() = %d, want 200", got)
	}

	mustApply(t, h, Action{Kind: Fold})
	if got := h.MinRaiseTo(); got != 0 {
		t.Errorf("MinRaiseTo() = %d on finished hand, want 0", got)
	}
}

func TestNoActingSeatHasNoLegalActions(t *testing.T) {
	t.Parallel()

	h := NewHand(1, testSeats(200, 200), 0, 1, 2, WithRand(testRNG(25)))
	mustApply(t, h, Action{Kind: Fold})

	if las := h.LegalActions(); las != nil {
		t.Errorf("LegalActions() = %v on finished hand, want nil", las)
	}
}
