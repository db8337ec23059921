package botrt

import (
	"fmt"
	"strings"
)

// Payload protocol versions. Bots that declare nothing get the legacy flat
// payload; declaring "2.0" selects the structured payload.
const (
	ProtocolV1 = "1.0"
	ProtocolV2 = "2.0"
)

// Bot is the decision entry point for one competitor. Act receives the
// serialized decision payload and returns the bot's JSON response. It is
// called from behind the Invoker, so implementations may hang, panic, or
// return garbage without harming the match: the caller only ever sees a safe
// action.
type Bot interface {
	Name() string
	// Protocol is the bot's declared payload protocol version. Empty means
	// no declaration.
	Protocol() string
	Act(payload []byte) ([]byte, error)
}

// Response is the wire shape every bot returns. For bet and raise, Amount is
// the total street commitment.
type Response struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// ResolveProtocol maps a bot's declared protocol version to the payload
// version the runtime will speak. No declaration selects legacy v1; declaring
// an unknown version is a registration error, caught before any hand is dealt.
func ResolveProtocol(declared string) (string, error) {
	switch strings.TrimSpace(declared) {
	case "", ProtocolV1:
		return ProtocolV1, nil
	case ProtocolV2:
		return ProtocolV2, nil
	default:
		return "", fmt.Errorf("unsupported protocol version %q", declared)
	}
}
