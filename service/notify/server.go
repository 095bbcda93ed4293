package notify

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"relaychat/logger"
	"relaychat/module/chat/model"
	"relaychat/service/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the notification fan-out: a websocket broadcast set fed by
// the relay queue.
type Server struct {
	hub *Hub
}

func NewServer() *Server {
	return &Server{hub: NewHub()}
}

func (s *Server) Hub() *Hub { return s.hub }

// RegisterWS mounts the websocket endpoint clients (and the worker
// relay) connect to.
func (s *Server) RegisterWS(r *gin.Engine) {
	r.GET("/ws", s.handleWS)
}

// RegisterHealth mounts the HTTP health check.
func (s *Server) RegisterHealth(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Notification Service is running and consuming messages.")
	})
}

func (s *Server) handleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[notify] upgrade websocket error: %v", err)
		return
	}

	s.hub.Add(ws)
	defer func() {
		s.hub.Remove(ws)
		_ = ws.Close()
	}()

	// Read loop: the notification protocol is server->client only.
	// Inbound frames (the worker relay forwards copies here as its
	// best-effort side channel) are drained and ignored; broadcasts
	// come from the queue consumer alone.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

// StartConsumer binds the fan-out's durable group to the relay queue.
// Deliveries are acked on receipt, then broadcast to every open
// connection; duplicates from redelivery are pushed as-is.
func (s *Server) StartConsumer(ctx context.Context, client *relay.Client) {
	consumer := relay.NewConsumer(client, relay.GroupNotify)
	consumer.AckFirst = true
	consumer.Start(ctx, func(_ context.Context, msg *model.Message) error {
		logger.Infof("[notify] received message from queue: room=%s sender=%s", msg.Room, msg.Sender)
		s.hub.Broadcast(EncodeNotification(msg))
		return nil
	})
}
