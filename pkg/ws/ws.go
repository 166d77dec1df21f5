// Package ws is a thin wrapper around gorilla/websocket for pushing
// JSON updates to connected clients.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the origin check used for upgrades.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Conn is a websocket connection safe for concurrent writes.
type Conn struct {
	raw *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Upgrade switches the HTTP connection to the websocket protocol.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &Conn{raw: raw}, nil
}

// WriteJSON sends v as a JSON text message with a write deadline.
func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	c.raw.SetWriteDeadline(time.Now().Add(writeWait))
	return c.raw.WriteJSON(v)
}

// ReadLoop discards incoming messages and closes done when the peer
// disconnects. Run it in its own goroutine to detect client departure.
func (c *Conn) ReadLoop(done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := c.raw.ReadMessage(); err != nil {
			return
		}
	}
}

// Close sends a close frame and tears the connection down.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.raw.SetWriteDeadline(time.Now().Add(writeWait))
	c.raw.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.raw.Close()
}
