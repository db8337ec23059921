package botrt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pokerpit/pokerpit/internal/deck"
	"github.com/pokerpit/pokerpit/internal/engine"
)

// MaxStateBytes caps the serialized v2 payload. An oversized payload fails
// the call closed rather than truncating the action history, which must stay
// deterministic.
const MaxStateBytes = 64 << 10

// ErrPayloadTooLarge is returned when a v2 payload would exceed MaxStateBytes.
var ErrPayloadTooLarge = errors.New("decision payload exceeds size cap")

// StateV1 is the legacy flat decision payload.
type StateV1 struct {
	Seat         int        `json:"seat"`
	SeatName     string     `json:"seat_name"`
	Street       string     `json:"street"`
	HoleCards    []string   `json:"hole_cards"`
	Board        []string   `json:"board"`
	Pot          int        `json:"pot"`
	Stack        int        `json:"stack"`
	ToCall       int        `json:"to_call"`
	MinRaiseTo   int        `json:"min_raise_to"`
	LegalActions []string   `json:"legal_actions"`
	Players      []PlayerV1 `json:"players"`
	Button       int        `json:"button"`
	SmallBlind   int        `json:"small_blind"` // seat id that posted it
	BigBlind     int        `json:"big_blind"`   // seat id that posted it
}

// PlayerV1 is the per-seat entry in the legacy payload.
type PlayerV1 struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Stack  int    `json:"stack"`
	Bet    int    `json:"bet"`
	Folded bool   `json:"folded"`
	AllIn  bool   `json:"all_in"`
}

// StateV2 is the structured decision payload.
type StateV2 struct {
	ProtocolVersion string          `json:"protocol_version"`
	DecisionID      string          `json:"decision_id"`
	Table           TableInfo       `json:"table"`
	Hero            HeroInfo        `json:"hero"`
	Players         []PlayerInfo    `json:"players"`
	Board           BoardInfo       `json:"board"`
	LegalActions    []LegalActionV2 `json:"legal_actions"`
	ActionHistory   []HistoryEntry  `json:"action_history"`
	Meta            MetaInfo        `json:"meta"`
}

type TableInfo struct {
	TableID    string `json:"table_id"`
	HandID     int    `json:"hand_id"`
	Street     string `json:"street"`
	ButtonSeat int    `json:"button_seat"`
	SmallBlind int    `json:"small_blind"`
	BigBlind   int    `json:"big_blind"`
}

type HeroInfo struct {
	PlayerID   string   `json:"player_id"`
	SeatID     int      `json:"seat_id"`
	Name       string   `json:"name"`
	HoleCards  []string `json:"hole_cards"`
	Stack      int      `json:"stack"`
	Bet        int      `json:"bet"`
	ToCall     int      `json:"to_call"`
	MinRaiseTo int      `json:"min_raise_to"`
	MaxRaiseTo int      `json:"max_raise_to"`
}

type PlayerInfo struct {
	PlayerID string `json:"player_id"`
	SeatID   int    `json:"seat_id"`
	Name     string `json:"name"`
	Stack    int    `json:"stack"`
	Bet      int    `json:"bet"`
	Folded   bool   `json:"folded"`
	AllIn    bool   `json:"all_in"`
	IsHero   bool   `json:"is_hero"`
}

type BoardInfo struct {
	Cards []string `json:"cards"`
	Pot   int      `json:"pot"`
}

type LegalActionV2 struct {
	Action    string `json:"action"`
	MinAmount *int   `json:"min_amount,omitempty"`
	MaxAmount *int   `json:"max_amount,omitempty"`
}

type HistoryEntry struct {
	Index    int    `json:"index"`
	Street   string `json:"street"`
	PlayerID string `json:"player_id"`
	SeatID   int    `json:"seat_id"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
	PotAfter int    `json:"pot_after"`
}

type MetaInfo struct {
	ServerTime string `json:"server_time"`
	StateBytes int    `json:"state_bytes"`
}

// BuildPayload serializes the decision state for the acting seat of h in the
// given protocol version. now feeds meta.server_time for v2 and comes from
// the invoker's clock so tests stay deterministic.
func BuildPayload(version, tableID string, h *engine.Hand, now time.Time) ([]byte, error) {
	if h.Acting < 0 {
		return nil, engine.ErrNoActingSeat
	}
	if version == ProtocolV2 {
		return buildV2(tableID, h, now)
	}
	return json.Marshal(buildV1(h))
}

func buildV1(h *engine.Hand) StateV1 {
	hero := h.Seats[h.Acting]
	legal := h.LegalActions()

	names := make([]string, 0, len(legal))
	for _, la := range legal {
		names = append(names, la.Kind.String())
	}

	players := make([]PlayerV1, len(h.Seats))
	for i, s := range h.Seats {
		players[i] = PlayerV1{
			Seat:   s.ID,
			Name:   s.Name,
			Stack:  s.Stack,
			Bet:    s.Bet,
			Folded: s.Folded,
			AllIn:  s.AllIn,
		}
	}

	sb, bb := blindSeats(h)
	return StateV1{
		Seat:         hero.ID,
		SeatName:     hero.Name,
		Street:       h.Street.String(),
		HoleCards:    deck.Strings(hero.HoleCards),
		Board:        deck.Strings(h.Board),
		Pot:          h.Pot(),
		Stack:        hero.Stack,
		ToCall:       h.ToCall(),
		MinRaiseTo:   h.MinRaiseTo(),
		LegalActions: names,
		Players:      players,
		Button:       h.Button,
		SmallBlind:   sb,
		BigBlind:     bb,
	}
}

func buildV2(tableID string, h *engine.Hand, now time.Time) ([]byte, error) {
	hero := h.Seats[h.Acting]
	legal := h.LegalActions()

	history := make([]HistoryEntry, len(h.Events))
	for i, ev := range h.Events {
		history[i] = HistoryEntry{
			Index:    ev.Index,
			Street:   ev.Street.String(),
			PlayerID: ev.PlayerID,
			SeatID:   ev.SeatID,
			Action:   ev.Kind.String(),
			Amount:   ev.Amount,
			PotAfter: ev.PotAfter,
		}
	}

	players := make([]PlayerInfo, len(h.Seats))
	for i, s := range h.Seats {
		players[i] = PlayerInfo{
			PlayerID: s.PlayerID,
			SeatID:   s.ID,
			Name:     s.Name,
			Stack:    s.Stack,
			Bet:      s.Bet,
			Folded:   s.Folded,
			AllIn:    s.AllIn,
			IsHero:   i == h.Acting,
		}
	}

	legalActions := make([]LegalActionV2, len(legal))
	for i, la := range legal {
		entry := LegalActionV2{Action: la.Kind.String()}
		if la.Kind == engine.Call || la.Kind == engine.Bet || la.Kind == engine.Raise {
			lo, hi := la.Min, la.Max
			entry.MinAmount = &lo
			entry.MaxAmount = &hi
		}
		legalActions[i] = entry
	}

	state := StateV2{
		ProtocolVersion: ProtocolV2,
		DecisionID:      fmt.Sprintf("%s:%d:%s:%d:%d", tableID, h.ID, h.Street, hero.ID, len(history)),
		Table: TableInfo{
			TableID:    tableID,
			HandID:     h.ID,
			Street:     h.Street.String(),
			ButtonSeat: h.Button,
			SmallBlind: h.SmallBlind,
			BigBlind:   h.BigBlind,
		},
		Hero: HeroInfo{
			PlayerID:   hero.PlayerID,
			SeatID:     hero.ID,
			Name:       hero.Name,
			HoleCards:  deck.Strings(hero.HoleCards),
			Stack:      hero.Stack,
			Bet:        hero.Bet,
			ToCall:     h.ToCall(),
			MinRaiseTo: h.MinRaiseTo(),
			MaxRaiseTo: hero.Stack + hero.Bet,
		},
		Players:       players,
		Board:         BoardInfo{Cards: deck.Strings(h.Board), Pot: h.Pot()},
		LegalActions:  legalActions,
		ActionHistory: history,
		Meta:          MetaInfo{ServerTime: now.UTC().Format(time.RFC3339)},
	}

	// meta.state_bytes reports the payload's own serialized size, so iterate
	// until the reported size stops changing the encoding's length.
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	for {
		state.Meta.StateBytes = len(data)
		next, err := json.Marshal(state)
		if err != nil {
			return nil, err
		}
		if len(next) == len(data) {
			data = next
			break
		}
		data = next
	}

	if len(data) > MaxStateBytes {
		return nil, fmt.Errorf("%d bytes: %w", len(data), ErrPayloadTooLarge)
	}
	return data, nil
}

func blindSeats(h *engine.Hand) (sb, bb int) {
	n := len(h.Seats)
	if n == 2 {
		return h.Button, (h.Button + 1) % n
	}
	return (h.Button + 1) % n, (h.Button + 2) % n
}
