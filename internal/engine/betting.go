package engine

// roundState tracks one street's betting. acted flags record who has acted
// since the last full bet or raise; blind posts deliberately do not set them,
// which is what gives the big blind its preflop option.
type roundState struct {
	currentBet int
	minRaise   int
	lastRaiser int
	acted      []bool
}

func newRoundState(numSeats, bigBlind int) roundState {
	return roundState{
		currentBet: 0,
		minRaise:   bigBlind,
		lastRaiser: -1,
		acted:      make([]bool, numSeats),
	}
}

func (r *roundState) reset(numSeats, bigBlind int) {
	*r = newRoundState(numSeats, bigBlind)
}

// reopen clears acted flags after a full raise so every other seat gets to
// respond. The raiser itself counts as having acted.
func (r *roundState) reopen(raiser int) {
	for i := range r.acted {
		r.acted[i] = false
	}
	r.acted[raiser] = true
}

// roundComplete reports whether the current street's betting is finished:
// every seat that can still act has matched the current bet and has acted
// since the last full raise. With at most one seat able to act there is no
// betting left once that seat has nothing to call.
func (h *Hand) roundComplete() bool {
	active := 0
	for _, s := range h.Seats {
		if s.CanAct() {
			active++
		}
	}
	if active == 0 {
		return true
	}
	if active == 1 {
		for _, s := range h.Seats {
			if s.CanAct() {
				return s.Bet >= h.round.currentBet
			}
		}
	}
	for i, s := range h.Seats {
		if !s.CanAct() {
			continue
		}
		if s.Bet != h.round.currentBet || !h.round.acted[i] {
			return false
		}
	}
	return true
}
