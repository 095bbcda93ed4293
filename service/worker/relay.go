package worker

import (
	"context"
	"time"

	"relaychat/logger"
	"relaychat/module/chat/model"
	"relaychat/service/notify"
	"relaychat/service/relay"
)

// Forwarder is the side channel to the notification fan-out.
type Forwarder interface {
	Send(data []byte) error
}

// Relay consumes the worker group of the relay queue one envelope at a
// time: forward the payload to the fan-out, simulate bounded
// processing, then ack. A processing failure requeues the envelope,
// which is what makes delivery at-least-once (and duplicates
// possible) downstream.
type Relay struct {
	fwd         Forwarder
	processTime time.Duration
}

func NewRelay(fwd Forwarder, processTime time.Duration) *Relay {
	if processTime <= 0 {
		processTime = time.Second
	}
	return &Relay{fwd: fwd, processTime: processTime}
}

// Process handles one delivery. Forwarding is best-effort and never
// blocks the acknowledgement path.
func (r *Relay) Process(ctx context.Context, msg *model.Message) error {
	logger.Infof("[worker] received message from queue: room=%s sender=%s", msg.Room, msg.Sender)

	if err := r.fwd.Send(notify.EncodeNotification(msg)); err != nil {
		logger.Warnf("[worker] websocket not connected, cannot send notification: %v", err)
	} else {
		logger.Info("[worker] sent notification via websocket")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.processTime):
	}

	logger.Infof("[worker] finished processing message from %s in room %s: %q",
		msg.Sender, msg.Room, msg.Content)
	return nil
}

// Start binds the worker group to the relay queue.
func Start(ctx context.Context, client *relay.Client, r *Relay) {
	consumer := relay.NewConsumer(client, relay.GroupWorker)
	consumer.Start(ctx, r.Process)
}
