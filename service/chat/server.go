package chat

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"relaychat/logger"
	midsec "relaychat/middleware/security"
	"relaychat/tools/errs"
	"relaychat/tools/ids"
	"relaychat/tools/security"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const opTimeout = 5 * time.Second

// Server wires the gateway onto HTTP: the websocket endpoint and the
// message history endpoint.
type Server struct {
	gw      *Gateway
	jwtOpts security.Options
}

func NewServer(gw *Gateway, jwtOpts security.Options) *Server {
	return &Server{gw: gw, jwtOpts: jwtOpts}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", s.HandleWS)
	r.GET("/messages", midsec.Middleware(s.jwtOpts), s.HandleHistory)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "Chat Service is running.")
	})
}

// HandleWS authenticates the handshake, upgrades, and runs the read
// loop until the peer goes away.
func (s *Server) HandleWS(c *gin.Context) {
	identity, subprotocol, err := s.authenticateHandshake(c)
	if err != nil {
		logger.Warnf("[chat] handshake auth failed: %v", err)
		status := http.StatusForbidden
		if errs.ErrTokenMissing.Is(err) {
			status = http.StatusUnauthorized
		}
		c.AbortWithStatusJSON(status, gin.H{"message": "Authentication error"})
		return
	}

	// When the credential rode in on the subprotocol offer it has to
	// be echoed back, or conforming clients abort the handshake.
	var respHeader http.Header
	if subprotocol != "" {
		respHeader = http.Header{"Sec-WebSocket-Protocol": []string{subprotocol}}
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, respHeader)
	if err != nil {
		logger.Infof("[chat] upgrade websocket error: %v", err)
		return
	}

	client := NewClient(ids.GenerateString(), *identity, ws)
	go client.WritePump()

	logger.Infof("[chat] user connected via websocket: %s (conn %s)", identity.Username, client.ConnID)
	s.gw.Register(client)

	s.readLoop(client)
	s.gw.HandleDisconnect(client)
}

func (s *Server) readLoop(client *Client) {
	ws := client.WS
	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[chat] peer closed conn=%s err=%v", client.ConnID, err)
			} else {
				logger.Infof("[chat] read err conn=%s err=%v", client.ConnID, err)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[chat] bad frame conn=%s err=%v sample=%q", client.ConnID, perr, sample)
			continue
		}

		s.dispatch(client, frame)
	}
}

func (s *Server) dispatch(client *Client, frame *Frame) {
	switch frame.Event {
	case EventJoinRoom:
		room, err := DecodeRoom(frame)
		if err != nil {
			client.Enqueue(BuildMessageError("Room name cannot be empty."))
			return
		}
		s.gw.HandleJoin(client, room)

	case EventSendMessage:
		payload, err := DecodeSendMessage(frame)
		if err != nil {
			client.Enqueue(BuildMessageError("Message content cannot be empty."))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		s.gw.HandleSend(ctx, client, payload)
		cancel()

	case EventTyping:
		if room, err := DecodeRoom(frame); err == nil {
			s.gw.HandleTyping(client, room)
		}

	case EventStopTyping:
		if room, err := DecodeRoom(frame); err == nil {
			s.gw.HandleStopTyping(client, room)
		}

	default:
		logger.Infof("[chat] no handler for event=%s conn=%s", frame.Event, client.ConnID)
	}
}

// authenticateHandshake accepts the credential as ?token=, as an
// Authorization bearer header, or as the last offered subprotocol
// value. In the last case it also returns the subprotocol to select
// in the upgrade response.
func (s *Server) authenticateHandshake(c *gin.Context) (*security.Identity, string, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("bearer "):])
			}
		}
	}
	var subprotocol string
	if token == "" {
		if proto := c.GetHeader("Sec-WebSocket-Protocol"); proto != "" {
			parts := strings.Split(proto, ",")
			token = strings.TrimSpace(parts[len(parts)-1])
			subprotocol = token
		}
	}
	identity, err := security.Verify(s.jwtOpts, token)
	return identity, subprotocol, err
}
