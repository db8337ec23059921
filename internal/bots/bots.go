// Package bots holds the built-in strategies used by the simulator and as
// test opponents. Each one speaks the same payload protocol as an external
// bot, so the whole invocation path is exercised even in pure-Go matches.
package bots

import (
	"encoding/json"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/pokerpit/pokerpit/internal/botrt"
)

// Folder always gets out of the way: check when free, fold otherwise. It
// speaks the legacy v1 payload.
type Folder struct{}

func (Folder) Name() string     { return "folder" }
func (Folder) Protocol() string { return "" }

func (Folder) Act(payload []byte) ([]byte, error) {
	var state botrt.StateV1
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	for _, action := range state.LegalActions {
		if action == "check" {
			return json.Marshal(botrt.Response{Action: "check"})
		}
	}
	return json.Marshal(botrt.Response{Action: "fold"})
}

// CallingStation never folds and never raises.
type CallingStation struct{}

func (CallingStation) Name() string     { return "caller" }
func (CallingStation) Protocol() string { return botrt.ProtocolV2 }

func (CallingStation) Act(payload []byte) ([]byte, error) {
	var state botrt.StateV2
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	if state.Hero.ToCall > 0 {
		return json.Marshal(botrt.Response{Action: "call"})
	}
	return json.Marshal(botrt.Response{Action: "check"})
}

// Random picks uniformly among its legal actions, with a uniform amount
// inside the bounds for bets and raises. Useful for soak-testing the engine.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random strategy. A nil rng gets a fixed seed, which is
// what tests want; pass a seeded source for varied play.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	return &Random{rng: rng}
}

func (*Random) Name() string     { return "random" }
func (*Random) Protocol() string { return botrt.ProtocolV2 }

func (r *Random) Act(payload []byte) ([]byte, error) {
	var state botrt.StateV2
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	if len(state.LegalActions) == 0 {
		return nil, fmt.Errorf("no legal actions in payload")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	choice := state.LegalActions[r.rng.IntN(len(state.LegalActions))]
	resp := botrt.Response{Action: choice.Action}
	if choice.MinAmount != nil && choice.MaxAmount != nil {
		resp.Amount = *choice.MinAmount + r.rng.IntN(*choice.MaxAmount-*choice.MinAmount+1)
	}
	return json.Marshal(resp)
}

// New resolves a built-in strategy by its configured name.
func New(name string, rng *rand.Rand) (botrt.Bot, error) {
	switch name {
	case "folder":
		return Folder{}, nil
	case "caller":
		return CallingStation{}, nil
	case "random":
		return NewRandom(rng), nil
	default:
		return nil, fmt.Errorf("unknown built-in bot %q", name)
	}
}
