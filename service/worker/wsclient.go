package worker

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"relaychat/logger"
	"relaychat/tools/errs"
)

// reconnectDelay matches the broker clients: fixed delay, retry forever.
const reconnectDelay = 5 * time.Second

// NotifyClient keeps one websocket connection to the notification
// fan-out and redials on a fixed delay whenever it drops. Send fails
// soft while disconnected.
type NotifyClient struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewNotifyClient(url string) *NotifyClient {
	return &NotifyClient{url: url}
}

// Run dials and keeps the connection alive until ctx is done.
func (n *NotifyClient) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			n.close()
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, n.url, nil)
		if err != nil {
			logger.Warnf("[worker] notify dial failed: %v, retrying in %s", err, reconnectDelay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}

		logger.Info("[worker] connected to notification websocket server")
		n.mu.Lock()
		n.conn = conn
		n.mu.Unlock()

		// Drain inbound frames; an error means the link is gone.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		n.mu.Lock()
		n.conn = nil
		n.mu.Unlock()
		_ = conn.Close()
		logger.Warnf("[worker] notify connection closed, reconnecting in %s", reconnectDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// Send forwards one frame; while disconnected it reports not-ready so
// the caller logs and moves on.
func (n *NotifyClient) Send(data []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return errs.ErrBrokerNotReady.WithDetail("notify websocket not connected")
	}
	_ = n.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return n.conn.WriteMessage(websocket.TextMessage, data)
}

func (n *NotifyClient) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
}
