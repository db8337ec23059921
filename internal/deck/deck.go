package deck

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

// Deck is an ordered 52-card deck. Cards are dealt by removal from the front
// and are never reused; a Deck lives for exactly one hand.
type Deck struct {
	cards [52]Card
	next  int
}

// New creates a freshly shuffled deck. A nil rng selects a cryptographically
// seeded source, which is what live matches use; tests pass a deterministic
// source instead.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = CryptoRand()
	}

	d := &Deck{}
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = Card{Rank: rank, Suit: suit}
			i++
		}
	}

	// Fisher-Yates
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	return d
}

// CryptoRand returns a ChaCha8 generator seeded from the operating system's
// entropy source.
func CryptoRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it somehow does,
		// fall back to a best-effort seed rather than dealing a fixed deck.
		binary.LittleEndian.PutUint64(seed[:8], rand.Uint64())
	}
	return rand.New(rand.NewChaCha8(seed))
}

// Stacked returns an unshuffled deck that deals the given cards first, then
// the rest of the pack in fixed order. For deterministic tests.
func Stacked(first ...Card) *Deck {
	d := &Deck{}
	used := make(map[Card]bool, len(first))
	i := 0
	for _, c := range first {
		if used[c] {
			panic("duplicate card in stacked deck")
		}
		used[c] = true
		d.cards[i] = c
		i++
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := Card{Rank: rank, Suit: suit}
			if !used[c] {
				d.cards[i] = c
				i++
			}
		}
	}
	return d
}

// Deal removes and returns the next n cards.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne removes and returns the next card.
func (d *Deck) DealOne() Card {
	c := d.cards[d.next]
	d.next++
	return c
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
