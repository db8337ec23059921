package engine

import "github.com/pokerpit/pokerpit/internal/deck"

// Seat is one player slot at the table. The match owns the canonical seats;
// each hand works on copies so stacks commit back atomically at hand end.
type Seat struct {
	ID        int
	PlayerID  string
	Name      string
	Stack     int
	Bet       int // chips committed this street
	TotalBet  int // chips committed this hand
	Folded    bool
	AllIn     bool
	HoleCards []deck.Card
}

// CanAct reports whether the seat is still in the acting rotation.
func (s *Seat) CanAct() bool {
	return !s.Folded && !s.AllIn
}

// Clone returns an independent copy of the seat.
func (s *Seat) Clone() *Seat {
	c := *s
	c.HoleCards = append([]deck.Card(nil), s.HoleCards...)
	return &c
}
