package engine

// Street represents the betting round tied to board progression.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// ActionKind identifies what a seat did at its turn, or that it posted a blind.
type ActionKind int

const (
	Blind ActionKind = iota
	Fold
	Check
	Call
	Bet
	Raise
)

func (a ActionKind) String() string {
	return [...]string{"blind", "fold", "check", "call", "bet", "raise"}[a]
}

// ParseActionKind converts a wire action name back into an ActionKind.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "blind":
		return Blind, true
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "bet":
		return Bet, true
	case "raise":
		return Raise, true
	default:
		return Fold, false
	}
}

// Action is a seat's chosen move. For Bet and Raise, Amount is the total
// street commitment ("raise to"), not the increment. For Call the amount is
// implied by the table state and ignored.
type Action struct {
	Kind   ActionKind
	Amount int
}

// LegalAction is one entry in the authoritative legal set for an acting seat.
// Min and Max bound the total street commitment for Bet/Raise and the chips
// owed for Call; they are zero for Fold and Check.
type LegalAction struct {
	Kind ActionKind
	Min  int
	Max  int
}

// ActionEvent is an immutable record appended every time a seat acts or posts
// a blind. Indices are contiguous from 0 within a hand.
type ActionEvent struct {
	Index    int
	Street   Street
	PlayerID string
	SeatID   int
	Kind     ActionKind
	Amount   int
	PotAfter int
}
