package botrt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/pokerpit/pokerpit/internal/engine"
)

// DefaultTimeout bounds a single decision call.
const DefaultTimeout = 2 * time.Second

// ErrKind classifies why a decision fell back, for logging and diagnosis.
type ErrKind int

const (
	OK ErrKind = iota
	ErrTimeout
	ErrProtocol
	ErrRuntime
	ErrIllegal
)

func (k ErrKind) String() string {
	return [...]string{"ok", "timeout", "protocol", "runtime", "illegal"}[k]
}

// Result is the uniform outcome of one bot invocation. Bot failures never
// travel as Go errors past the invoker: a failed call carries the substituted
// fallback action and the kind of failure that caused it.
type Result struct {
	Action   engine.Action
	Kind     ErrKind
	Fallback bool
	Err      error // underlying cause, for logging only
}

// Invoker is the trust boundary between the engine and bot code. Each call
// runs on its own goroutine under a hard wall-clock timeout; hangs, panics,
// malformed returns and illegal actions all come back as a safe fallback
// action, so the match loop never stalls or crashes on a misbehaving bot.
type Invoker struct {
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger
}

// NewInvoker creates an invoker. A zero timeout selects DefaultTimeout; a nil
// clock selects the real one (tests inject a mock to drive timeouts).
func NewInvoker(logger *log.Logger, timeout time.Duration, clock quartz.Clock) *Invoker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Invoker{
		clock:   clock,
		timeout: timeout,
		logger:  logger.WithPrefix("botrt"),
	}
}

// Request obtains an action for the acting seat of h from bot. The returned
// action is always legal for that seat.
func (inv *Invoker) Request(tableID string, h *engine.Hand, bot Bot) Result {
	legal := h.LegalActions()

	version, err := ResolveProtocol(bot.Protocol())
	if err != nil {
		return inv.fail(bot, h, legal, ErrProtocol, err)
	}
	payload, err := BuildPayload(version, tableID, h, inv.clock.Now())
	if err != nil {
		return inv.fail(bot, h, legal, ErrProtocol, err)
	}

	type reply struct {
		data []byte
		err  error
	}
	// Buffered so a reply arriving after the timeout is discarded instead of
	// leaking the goroutine.
	replyCh := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replyCh <- reply{err: fmt.Errorf("bot panicked: %v", r)}
			}
		}()
		data, err := bot.Act(payload)
		replyCh <- reply{data: data, err: err}
	}()

	timedOut := make(chan struct{})
	timer := inv.clock.AfterFunc(inv.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case r := <-replyCh:
		if r.err != nil {
			return inv.fail(bot, h, legal, ErrRuntime, r.err)
		}
		return inv.accept(bot, h, legal, r.data)
	case <-timedOut:
		return inv.fail(bot, h, legal, ErrTimeout,
			fmt.Errorf("no decision within %s", inv.timeout))
	}
}

func (inv *Invoker) accept(bot Bot, h *engine.Hand, legal []engine.LegalAction, data []byte) Result {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return inv.fail(bot, h, legal, ErrProtocol, fmt.Errorf("malformed response: %w", err))
	}

	action, ok := Normalize(resp, legal)
	if !ok {
		return inv.fail(bot, h, legal, ErrIllegal,
			fmt.Errorf("action %q amount %d not legal", resp.Action, resp.Amount))
	}
	return Result{Action: action}
}

func (inv *Invoker) fail(bot Bot, h *engine.Hand, legal []engine.LegalAction, kind ErrKind, err error) Result {
	action := FallbackAction(legal)
	inv.logger.Warn("bot decision failed, applying fallback",
		"bot", bot.Name(),
		"hand", h.ID,
		"seat", h.Acting,
		"kind", kind,
		"fallback", action.Kind,
		"error", err)
	return Result{Action: action, Kind: kind, Fallback: true, Err: err}
}
