package bots

import (
	"encoding/json"
	"fmt"
	rand "math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerpit/pokerpit/internal/botrt"
	"github.com/pokerpit/pokerpit/internal/engine"
)

func newHand(t *testing.T, stacks ...int) *engine.Hand {
	t.Helper()
	seats := make([]*engine.Seat, len(stacks))
	for i, chips := range stacks {
		seats[i] = &engine.Seat{
			ID:       i,
			PlayerID: fmt.Sprintf("player-%d", i),
			Name:     fmt.Sprintf("Bot%d", i),
			Stack:    chips,
		}
	}
	return engine.NewHand(1, seats, 0, 1, 2,
		engine.WithRand(rand.New(rand.NewPCG(5, 5))))
}

func decide(t *testing.T, bot botrt.Bot, h *engine.Hand) engine.Action {
	t.Helper()
	version, err := botrt.ResolveProtocol(bot.Protocol())
	require.NoError(t, err)
	payload, err := botrt.BuildPayload(version, "t1", h, time.Unix(0, 0))
	require.NoError(t, err)
	raw, err := bot.Act(payload)
	require.NoError(t, err)

	var resp botrt.Response
	require.NoError(t, json.Unmarshal(raw, &resp))
	action, ok := botrt.Normalize(resp, h.LegalActions())
	require.True(t, ok, "built-in bot produced illegal action %q %d", resp.Action, resp.Amount)
	return action
}

func TestFolderFoldsWhenOwing(t *testing.T) {
	t.Parallel()

	h := newHand(t, 200, 200)
	action := decide(t, Folder{}, h)
	assert.Equal(t, engine.Fold, action.Kind)
}

func TestFolderChecksWhenFree(t *testing.T) {
	t.Parallel()

	h := newHand(t, 200, 200)
	require.NoError(t, h.Apply(engine.Action{Kind: engine.Call}))
	action := decide(t, Folder{}, h)
	assert.Equal(t, engine.Check, action.Kind)
}

func TestCallingStationCalls(t *testing.T) {
	t.Parallel()

	h := newHand(t, 200, 200)
	action := decide(t, CallingStation{}, h)
	assert.Equal(t, engine.Call, action.Kind)

	require.NoError(t, h.Apply(action))
	action = decide(t, CallingStation{}, h)
	assert.Equal(t, engine.Check, action.Kind)
}

func TestRandomAlwaysLegal(t *testing.T) {
	t.Parallel()

	bot := NewRandom(rand.New(rand.NewPCG(11, 11)))
	for i := 0; i < 50; i++ {
		h := newHand(t, 50+i, 200)
		for !h.IsComplete() {
			action := decide(t, bot, h)
			require.NoError(t, h.Apply(action))
		}
		_, err := h.Finalize()
		require.NoError(t, err)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"folder", "caller", "random"} {
		bot, err := New(name, nil)
		require.NoError(t, err)
		assert.Equal(t, name, bot.Name())
	}

	_, err := New("gto-wizard", nil)
	assert.Error(t, err)
}
