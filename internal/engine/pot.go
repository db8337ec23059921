package engine

import (
	"fmt"
	"sort"
)

// Pot is one contested tier of the total pot. When all-in amounts differ,
// chips above each all-in threshold form separate tiers contested only by
// seats that covered them.
type Pot struct {
	Amount   int
	Eligible []int // seat ids that contributed to and can win this tier
	Winners  []int // filled in at resolution
}

// Result is the payout of a completed hand.
type Result struct {
	// Winners holds the winners of the main pot, ordered by distance from
	// the button (seat after the button first).
	Winners []int
	// Payouts holds chips awarded per seat id; unwon tiers are returned to
	// their sole contributor here too.
	Payouts []int
	// Pots lists each resolved tier for history rendering.
	Pots []Pot
}

// Finalize resolves a completed hand into payouts, credits winning seats, and
// verifies chip conservation. A conservation failure means an engine bug and
// aborts the hand with ErrConservation.
func (h *Hand) Finalize() (*Result, error) {
	if !h.IsComplete() {
		return nil, ErrHandInProgress
	}
	if h.finalized {
		return nil, ErrHandComplete
	}
	h.finalized = true

	// Fold bets from an aborted street into the totals.
	for _, s := range h.Seats {
		s.Bet = 0
	}

	res := &Result{Payouts: make([]int, len(h.Seats))}

	if winner := h.foldedOutWinner(); winner != -1 {
		pot := h.Pot()
		res.Winners = []int{winner}
		res.Payouts[winner] = pot
		res.Pots = []Pot{{Amount: pot, Eligible: []int{winner}, Winners: []int{winner}}}
	} else {
		res.Pots = h.buildPots()
		scores := h.showdownScores()
		for i := range res.Pots {
			h.resolvePot(&res.Pots[i], scores, res.Payouts)
		}
		res.Winners = h.buttonOrder(res.Pots[0].Winners)
	}

	paid := 0
	for i, amount := range res.Payouts {
		h.Seats[i].Stack += amount
		paid += amount
	}
	if err := h.checkConservation(paid); err != nil {
		return nil, err
	}
	return res, nil
}

// buildPots converts final per-seat contributions into tiers. Levels are the
// distinct contribution totals; each tier is contested by the non-folded
// seats that covered it. Adjacent tiers with identical contenders merge.
func (h *Hand) buildPots() []Pot {
	levels := make([]int, 0, len(h.Seats))
	seen := make(map[int]bool)
	for _, s := range h.Seats {
		if s.TotalBet > 0 && !seen[s.TotalBet] {
			seen[s.TotalBet] = true
			levels = append(levels, s.TotalBet)
		}
	}
	sort.Ints(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		var pot Pot
		pot.Amount = 0
		for _, s := range h.Seats {
			if contrib := min(s.TotalBet, level) - prev; contrib > 0 {
				pot.Amount += contrib
			}
			if !s.Folded && s.TotalBet >= level {
				pot.Eligible = append(pot.Eligible, s.ID)
			}
		}
		prev = level

		if pot.Amount == 0 {
			continue
		}
		if len(pot.Eligible) == 0 {
			// Dead chips from folded seats above every live contribution;
			// they belong to the previous tier's contenders.
			if n := len(pots); n > 0 {
				pots[n-1].Amount += pot.Amount
			}
			continue
		}
		if n := len(pots); n > 0 && equalSeatSets(pots[n-1].Eligible, pot.Eligible) {
			pots[n-1].Amount += pot.Amount
			continue
		}
		pots = append(pots, pot)
	}
	return pots
}

// showdownScores evaluates every non-folded seat's best hand.
func (h *Hand) showdownScores() []int16 {
	scores := make([]int16, len(h.Seats))
	for i, s := range h.Seats {
		if !s.Folded {
			scores[i] = handScore(s.HoleCards, h.Board)
		}
	}
	return scores
}

// resolvePot picks the tier's winners and splits its amount among them.
// Remainder chips from an uneven split go one at a time to winners in
// button-relative order, the seat after the button first.
func (h *Hand) resolvePot(pot *Pot, scores []int16, payouts []int) {
	if len(pot.Eligible) == 1 {
		seat := pot.Eligible[0]
		pot.Winners = []int{seat}
		payouts[seat] += pot.Amount
		return
	}

	best := scores[pot.Eligible[0]]
	winners := []int{pot.Eligible[0]}
	for _, seat := range pot.Eligible[1:] {
		switch {
		case scores[seat] > best:
			best = scores[seat]
			winners = []int{seat}
		case scores[seat] == best:
			winners = append(winners, seat)
		}
	}

	winners = h.buttonOrder(winners)
	pot.Winners = winners

	share := pot.Amount / len(winners)
	remainder := pot.Amount % len(winners)
	for i, seat := range winners {
		payouts[seat] += share
		if i < remainder {
			payouts[seat]++
		}
	}
}

// buttonOrder sorts seat ids by distance from the button, the seat after the
// button first.
func (h *Hand) buttonOrder(seats []int) []int {
	n := len(h.Seats)
	ordered := append([]int(nil), seats...)
	sort.Slice(ordered, func(i, j int) bool {
		di := (ordered[i] - h.Button - 1 + n) % n
		dj := (ordered[j] - h.Button - 1 + n) % n
		return di < dj
	})
	return ordered
}

func (h *Hand) checkConservation(paid int) error {
	if paid != h.Pot() {
		return fmt.Errorf("pot %d but paid out %d: %w", h.Pot(), paid, ErrConservation)
	}
	before, after := 0, 0
	for i, s := range h.Seats {
		before += h.startStacks[i]
		after += s.Stack
	}
	if before != after {
		return fmt.Errorf("stacks %d before, %d after: %w", before, after, ErrConservation)
	}
	return nil
}

func equalSeatSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
