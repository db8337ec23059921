package engine

// LegalActions computes the authoritative legal set for the acting seat, with
// amount bounds. Bet/Raise bounds are total street commitments; the Call
// bound is the chips owed, capped at the seat's stack. Nil when no seat is
// due to act.
//
// Fold is always offered, even when a free check is available. A raise is
// withheld from a seat that already acted this round and is facing only a
// short all-in, which does not reopen the action.
func (h *Hand) LegalActions() []LegalAction {
	if h.Acting < 0 {
		return nil
	}
	return h.legalActionsFor(h.Acting)
}

func (h *Hand) legalActionsFor(idx int) []LegalAction {
	s := h.Seats[idx]
	if !s.CanAct() {
		return nil
	}

	las := []LegalAction{{Kind: Fold}}

	toCall := h.round.currentBet - s.Bet
	if toCall <= 0 {
		las = append(las, LegalAction{Kind: Check})
	} else {
		owed := min(toCall, s.Stack)
		las = append(las, LegalAction{Kind: Call, Min: owed, Max: owed})
	}

	total := s.Stack + s.Bet
	if h.round.currentBet == 0 {
		if s.Stack > 0 {
			las = append(las, LegalAction{Kind: Bet, Min: min(h.BigBlind, total), Max: total})
		}
	} else if total > h.round.currentBet && !h.round.acted[idx] {
		minTo := min(h.round.currentBet+h.round.minRaise, total)
		las = append(las, LegalAction{Kind: Raise, Min: minTo, Max: total})
	}

	return las
}

// MinRaiseTo returns the smallest legal total for a bet or raise by the
// acting seat, or 0 when neither is available.
func (h *Hand) MinRaiseTo() int {
	for _, la := range h.LegalActions() {
		if la.Kind == Bet || la.Kind == Raise {
			return la.Min
		}
	}
	return 0
}

// MaxRaiseTo returns the largest legal total for a bet or raise by the
// acting seat, or 0 when neither is available.
func (h *Hand) MaxRaiseTo() int {
	for _, la := range h.LegalActions() {
		if la.Kind == Bet || la.Kind == Raise {
			return la.Max
		}
	}
	return 0
}
