package engine

import (
	poker "github.com/paulhankin/poker"

	"github.com/pokerpit/pokerpit/internal/deck"
)

// toPokerCard converts a deck card to the evaluator's encoding. The library
// numbers aces low (1) where ours are high (14).
func toPokerCard(c deck.Card) poker.Card {
	var suit poker.Suit
	switch c.Suit {
	case deck.Spades:
		suit = poker.Spade
	case deck.Hearts:
		suit = poker.Heart
	case deck.Diamonds:
		suit = poker.Diamond
	default:
		suit = poker.Club
	}
	rank := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = poker.Rank(1)
	}
	card, _ := poker.MakeCard(suit, rank)
	return card
}

// handScore rates the best five-card hand from two hole cards and a full
// board. Higher scores beat lower ones.
func handScore(hole, board []deck.Card) int16 {
	var cards [7]poker.Card
	n := 0
	for _, c := range hole {
		cards[n] = toPokerCard(c)
		n++
	}
	for _, c := range board {
		cards[n] = toPokerCard(c)
		n++
	}
	return poker.Eval7(&cards)
}

// describeHand names the best hand ("two pair, kings and fours") for
// showdown lines in hand histories.
func describeHand(hole, board []deck.Card) string {
	all := make([]poker.Card, 0, 7)
	for _, c := range hole {
		all = append(all, toPokerCard(c))
	}
	for _, c := range board {
		all = append(all, toPokerCard(c))
	}
	desc, err := poker.Describe(all)
	if err != nil {
		return ""
	}
	return desc
}
