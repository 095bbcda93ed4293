package relay

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"relaychat/logger"
	"relaychat/module/chat/model"
)

// Handler processes one delivery. A non-nil error requeues the message
// for redelivery, so handlers see at-least-once semantics and must
// tolerate duplicates.
type Handler func(ctx context.Context, msg *model.Message) error

// Consumer binds a durable consumer group to the relay queue.
type Consumer struct {
	c       *Client
	group   string
	ackWait time.Duration

	// AckFirst acknowledges before the handler runs. The fan-out role
	// acks on delivery and treats broadcast as fire-and-forget; the
	// worker role keeps ack-last so failures requeue.
	AckFirst bool
}

func NewConsumer(c *Client, group string) *Consumer {
	return &Consumer{c: c, group: group, ackWait: 30 * time.Second}
}

// Start subscribes with one unacknowledged delivery in flight at a
// time. Subscription setup retries forever on the fixed delay so a
// consumer started before the broker eventually binds.
func (cs *Consumer) Start(ctx context.Context, h Handler) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := cs.subscribe(ctx, h); err != nil {
				logger.Warnf("[relay] consumer %s subscribe failed: %v, retrying in %s",
					cs.group, err, ReconnectDelay)
				select {
				case <-ctx.Done():
					return
				case <-time.After(ReconnectDelay):
				}
				continue
			}
			logger.Infof("[relay] consumer group %s bound to %s", cs.group, Subject)
			return
		}
	}()
}

// delivery is the acknowledgement surface of one queue message.
// *nats.Msg satisfies it.
type delivery interface {
	Ack(opts ...nats.AckOpt) error
	Nak(opts ...nats.AckOpt) error
}

// handleDelivery applies the per-delivery ack policy: poison frames
// are acked and dropped, AckFirst acks before the handler runs,
// otherwise a handler error naks for redelivery and success acks.
func (cs *Consumer) handleDelivery(ctx context.Context, d delivery, data []byte, h Handler) {
	msg, err := Decode(data)
	if err != nil {
		// Poison frame: drop it, a redelivery would fail the same way.
		logger.Errorf("[relay] consumer %s: bad envelope, dropping: %v", cs.group, err)
		_ = d.Ack()
		return
	}
	if cs.AckFirst {
		_ = d.Ack()
		if err := h(ctx, msg); err != nil {
			logger.Errorf("[relay] consumer %s: handler error after ack: %v", cs.group, err)
		}
		return
	}
	if err := h(ctx, msg); err != nil {
		logger.Errorf("[relay] consumer %s: handler error, requeueing: %v", cs.group, err)
		_ = d.Nak()
		return
	}
	_ = d.Ack()
}

func (cs *Consumer) subscribe(ctx context.Context, h Handler) error {
	cb := func(m *nats.Msg) {
		cs.handleDelivery(ctx, m, m.Data, h)
	}

	sub, err := cs.c.js.QueueSubscribe(Subject, cs.group, cb,
		nats.Durable(cs.group),
		nats.ManualAck(),
		nats.AckWait(cs.ackWait),
		nats.MaxAckPending(1), // prefetch=1: strict in-order, one in flight
		nats.DeliverAll(),
	)
	if err != nil {
		return err
	}
	cs.c.addSub(sub)
	return nil
}
