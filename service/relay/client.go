package relay

import (
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"relaychat/logger"
	"relaychat/tools/errs"
)

const (
	// StreamName is the durable stream backing the relay queue.
	StreamName = "CHAT_MESSAGES"
	// Subject is the relay queue name on the wire.
	Subject = "chat.messages"

	// Consumer groups. Each group receives every message once;
	// members of one group compete for deliveries.
	GroupWorker = "worker-relay"
	GroupNotify = "notify-fanout"

	// ReconnectDelay is the fixed delay between reconnect attempts,
	// shared by every broker client in the system.
	ReconnectDelay = 5 * time.Second
)

// Config for the relay client.
type Config struct {
	Servers []string
	Name    string
}

// Client owns the broker connection. Publish and consume go through it
// so the underlying handle can be swapped on reconnect without callers
// noticing more than a transient not-ready failure.
type Client struct {
	cfg Config

	mu sync.RWMutex
	nc *nats.Conn
	js nats.JetStreamContext

	subs []*nats.Subscription
}

// NewClient dials the broker. The connection retries forever on a fixed
// delay, both at startup and after drops; the client is usable
// immediately, publishes simply fail soft until the link is up.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Servers) == 0 {
		return nil, errs.New("relay servers missing")
	}

	c := &Client{cfg: cfg}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(ReconnectDelay),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warnf("[relay] connection lost: %v, reconnecting in %s", err, ReconnectDelay)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infof("[relay] reconnected to %s", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(strings.Join(cfg.Servers, ","), opts...)
	if err != nil {
		return nil, errs.WrapMsg(err, "connect relay broker")
	}
	c.nc = nc

	js, err := nc.JetStream()
	if err != nil {
		return nil, errs.WrapMsg(err, "init jetstream")
	}
	c.js = js

	go c.ensureStreamLoop()
	return c, nil
}

// ensureStreamLoop asserts the durable stream, retrying on the fixed
// delay until the broker accepts it.
func (c *Client) ensureStreamLoop() {
	for {
		_, err := c.js.AddStream(&nats.StreamConfig{
			Name:     StreamName,
			Subjects: []string{Subject},
			Storage:  nats.FileStorage,
		})
		if err == nil || err == nats.ErrStreamNameAlreadyInUse {
			logger.Infof("[relay] asserted durable stream %s (%s)", StreamName, Subject)
			return
		}
		logger.Warnf("[relay] assert stream failed: %v, retrying in %s", err, ReconnectDelay)
		time.Sleep(ReconnectDelay)
	}
}

// Ready reports whether the broker link is currently up.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nc != nil && c.nc.IsConnected()
}

// Close drains subscriptions and the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		_ = sub.Drain()
	}
	c.subs = nil
	if c.nc != nil {
		return c.nc.Drain()
	}
	return nil
}

func (c *Client) addSub(sub *nats.Subscription) {
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
}
