package engine

import (
	"fmt"
	"strings"

	"github.com/pokerpit/pokerpit/internal/deck"
)

// FormatHistory renders a completed hand as human-readable text. It is a pure
// function of the hand's state and result: identical inputs always produce
// identical text. Hole cards appear only for seats that reached showdown; a
// hand won by folding everyone out reveals nothing.
func FormatHistory(h *Hand, res *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hand #%d\n", h.ID)
	fmt.Fprintf(&b, "Game: Hold'em No Limit (%d/%d)\n", h.SmallBlind, h.BigBlind)
	for i, s := range h.Seats {
		fmt.Fprintf(&b, "Seat %d: %s (%d in chips)", s.ID, s.Name, h.startStacks[i])
		if i == h.Button {
			b.WriteString(" [button]")
		}
		b.WriteByte('\n')
	}

	byStreet := make(map[Street][]ActionEvent)
	for _, ev := range h.Events {
		byStreet[ev.Street] = append(byStreet[ev.Street], ev)
	}

	writeStreet(&b, "PREFLOP", byStreet[Preflop])
	if len(h.Board) >= 3 {
		writeStreet(&b, fmt.Sprintf("FLOP [%s]", cardsText(h.Board[:3])), byStreet[Flop])
	}
	if len(h.Board) >= 4 {
		writeStreet(&b, fmt.Sprintf("TURN [%s] [%s]", cardsText(h.Board[:3]), cardsText(h.Board[3:4])), byStreet[Turn])
	}
	if len(h.Board) >= 5 {
		writeStreet(&b, fmt.Sprintf("RIVER [%s] [%s]", cardsText(h.Board[:4]), cardsText(h.Board[4:5])), byStreet[River])
	}

	if h.Street == Showdown {
		b.WriteString("*** SHOW DOWN ***\n")
		for _, s := range h.Seats {
			if s.Folded {
				continue
			}
			fmt.Fprintf(&b, "Seat %d shows [%s] (%s)\n", s.ID, cardsText(s.HoleCards), describeHand(s.HoleCards, h.Board))
		}
	}

	b.WriteString("*** SUMMARY ***\n")
	fmt.Fprintf(&b, "Total pot: %d\n", h.Pot())
	for seat, amount := range res.Payouts {
		if amount > 0 {
			fmt.Fprintf(&b, "Seat %d collected %d from pot\n", seat, amount)
		}
	}
	if len(res.Winners) == 1 {
		fmt.Fprintf(&b, "Winner: Seat %d\n", res.Winners[0])
	} else {
		labels := make([]string, len(res.Winners))
		for i, seat := range res.Winners {
			labels[i] = fmt.Sprintf("Seat %d", seat)
		}
		fmt.Fprintf(&b, "Winners: %s\n", strings.Join(labels, ", "))
	}
	if len(h.Board) > 0 {
		fmt.Fprintf(&b, "Board: [%s]\n", cardsText(h.Board))
	}
	fmt.Fprintf(&b, "Blinds: %d/%d\n", h.SmallBlind, h.BigBlind)

	return b.String()
}

func writeStreet(b *strings.Builder, label string, events []ActionEvent) {
	fmt.Fprintf(b, "*** %s ***\n", label)
	for _, ev := range events {
		switch ev.Kind {
		case Blind:
			fmt.Fprintf(b, "Seat %d posts blind %d\n", ev.SeatID, ev.Amount)
		case Fold:
			fmt.Fprintf(b, "Seat %d folds\n", ev.SeatID)
		case Check:
			fmt.Fprintf(b, "Seat %d checks\n", ev.SeatID)
		case Call:
			fmt.Fprintf(b, "Seat %d calls %d\n", ev.SeatID, ev.Amount)
		case Bet:
			fmt.Fprintf(b, "Seat %d bets %d\n", ev.SeatID, ev.Amount)
		case Raise:
			fmt.Fprintf(b, "Seat %d raises to %d\n", ev.SeatID, ev.Amount)
		}
	}
}

func cardsText(cards []deck.Card) string {
	return strings.Join(deck.Strings(cards), " ")
}
