package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"relaychat/logger"
	"relaychat/tools/security"
)

const (
	sendQueueSize = 256
	writeDeadline = 5 * time.Second
)

// Client is one authenticated chat connection. A single writer
// goroutine drains Send so frame order per connection is preserved.
type Client struct {
	ConnID   string
	Identity security.Identity
	WS       *websocket.Conn
	Send     chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(connID string, id security.Identity, ws *websocket.Conn) *Client {
	return &Client{
		ConnID:   connID,
		Identity: id,
		WS:       ws,
		Send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// WritePump is the single writer for this connection. Run it in its
// own goroutine; it exits when Close is called.
func (c *Client) WritePump() {
	for {
		select {
		case <-c.done:
			return
		case data, ok := <-c.Send:
			if !ok {
				return
			}
			_ = c.WS.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.WS.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Infof("[chat] write failed conn=%s user=%s: %v", c.ConnID, c.Identity.Username, err)
				c.Close()
				return
			}
		}
	}
}

// Enqueue queues a frame for the writer. Slow clients drop frames
// instead of blocking the caller.
func (c *Client) Enqueue(data []byte) {
	select {
	case c.Send <- data:
	default:
		logger.Warnf("[chat] send queue full, dropping frame conn=%s user=%s", c.ConnID, c.Identity.Username)
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.WS != nil {
			_ = c.WS.Close()
		}
	})
}
