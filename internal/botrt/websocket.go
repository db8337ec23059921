package botrt

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// WebsocketBot relays decisions to a bot connected over a websocket: one text
// message out per decision, one text message back. The invoker's timeout
// bounds the wait; a peer that answers late or disconnects becomes a fallback
// action upstream.
type WebsocketBot struct {
	name     string
	protocol string

	// The websocket allows one concurrent reader and writer, so decisions
	// are serialized.
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebsocketBot wraps an accepted connection as a Bot. The declared
// protocol version comes from the connect handshake.
func NewWebsocketBot(name, protocol string, conn *websocket.Conn) *WebsocketBot {
	return &WebsocketBot{name: name, protocol: protocol, conn: conn}
}

// DialWebsocketBot connects out to a remote bot endpoint and wraps the
// connection.
func DialWebsocketBot(ctx context.Context, name, protocol, url string) (*WebsocketBot, error) {
	if _, err := ResolveProtocol(protocol); err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWebsocketBot(name, protocol, conn), nil
}

// Name implements Bot.
func (b *WebsocketBot) Name() string { return b.name }

// Protocol implements Bot.
func (b *WebsocketBot) Protocol() string { return b.protocol }

// Act implements Bot.
func (b *WebsocketBot) Act(payload []byte) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, fmt.Errorf("write to bot: %w", err)
	}
	_, data, err := b.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read from bot: %w", err)
	}
	return data, nil
}

// Close tears down the connection.
func (b *WebsocketBot) Close() error {
	return b.conn.Close()
}
