package botrt

import "github.com/pokerpit/pokerpit/internal/engine"

// Normalize maps a bot response onto the legal set. Benign aliases are
// forgiven: "bet" when a bet already stands means raise (and vice versa), and
// "call" with nothing owed means check, since neither changes what the bot
// commits. Everything else is strict: an action outside the legal set or a
// bet/raise amount outside its bounds is rejected, never clamped.
func Normalize(resp Response, legal []engine.LegalAction) (engine.Action, bool) {
	kind, ok := engine.ParseActionKind(resp.Action)
	if !ok || kind == engine.Blind {
		return engine.Action{}, false
	}

	if !kindLegal(legal, kind) {
		switch {
		case kind == engine.Bet && kindLegal(legal, engine.Raise):
			kind = engine.Raise
		case kind == engine.Raise && kindLegal(legal, engine.Bet):
			kind = engine.Bet
		case kind == engine.Call && kindLegal(legal, engine.Check):
			kind = engine.Check
		default:
			return engine.Action{}, false
		}
	}

	switch kind {
	case engine.Bet, engine.Raise:
		for _, la := range legal {
			if la.Kind == kind {
				if resp.Amount < la.Min || resp.Amount > la.Max {
					return engine.Action{}, false
				}
				return engine.Action{Kind: kind, Amount: resp.Amount}, true
			}
		}
		return engine.Action{}, false
	default:
		return engine.Action{Kind: kind}, true
	}
}

// FallbackAction is the uniform substitute for any failed decision: check
// when free, otherwise fold. Never an action that commits chips.
func FallbackAction(legal []engine.LegalAction) engine.Action {
	if kindLegal(legal, engine.Check) {
		return engine.Action{Kind: engine.Check}
	}
	return engine.Action{Kind: engine.Fold}
}

func kindLegal(legal []engine.LegalAction, kind engine.ActionKind) bool {
	for _, la := range legal {
		if la.Kind == kind {
			return true
		}
	}
	return false
}
