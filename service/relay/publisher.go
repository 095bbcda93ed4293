package relay

import (
	"github.com/nats-io/nats.go"

	"relaychat/logger"
	"relaychat/module/chat/model"
	"relaychat/tools/errs"
)

// Publisher pushes accepted messages onto the relay queue.
type Publisher interface {
	Publish(msg *model.Message) error
}

type publisher struct {
	c *Client
}

func NewPublisher(c *Client) Publisher {
	return &publisher{c: c}
}

// Publish is best-effort: while the broker link is down it fails soft
// with a coded error the caller is expected to log, never to surface.
func (p *publisher) Publish(msg *model.Message) error {
	if !p.c.Ready() {
		return errs.ErrBrokerNotReady
	}
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	// MsgId gives the broker a dedup handle for retried publishes;
	// consumers still must tolerate duplicate delivery.
	var opts []nats.PubOpt
	if !msg.ID.IsZero() {
		opts = append(opts, nats.MsgId(msg.ID.Hex()))
	}
	_, err = p.c.js.Publish(Subject, data, opts...)
	if err != nil {
		return errs.ErrBrokerPublish.WithDetail(err.Error())
	}
	logger.Infof("[relay] published message to %s room=%s sender=%s", Subject, msg.Room, msg.Sender)
	return nil
}
