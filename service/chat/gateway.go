package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"relaychat/logger"
	"relaychat/module/chat/model"
	"relaychat/service/relay"
	"relaychat/service/storage"
)

const presenceTTL = time.Hour

// MessageStore is the persistence surface the gateway needs.
type MessageStore interface {
	Insert(ctx context.Context, msg *model.Message) error
	RecentByRoom(ctx context.Context, room string, limit int) ([]model.Message, error)
}

// Gateway orchestrates room membership, typing state, persistence and
// the relay publish for every chat connection on this node.
type Gateway struct {
	gwID   string
	store  MessageStore
	pub    relay.Publisher
	rooms  *RoomRegistry
	typing *TypingTracker

	mu      sync.RWMutex
	clients map[string]*Client // connID -> client
}

func NewGateway(gwID string, store MessageStore, pub relay.Publisher) *Gateway {
	return &Gateway{
		gwID:    gwID,
		store:   store,
		pub:     pub,
		rooms:   NewRoomRegistry(),
		typing:  NewTypingTracker(),
		clients: make(map[string]*Client),
	}
}

func (g *Gateway) Rooms() *RoomRegistry        { return g.rooms }
func (g *Gateway) TypingState() *TypingTracker { return g.typing }

// Register admits an authenticated connection and auto-joins the
// default room.
func (g *Gateway) Register(c *Client) {
	g.mu.Lock()
	g.clients[c.ConnID] = c
	g.mu.Unlock()

	g.rooms.Join(c.ConnID, model.DefaultRoom)
	c.Enqueue(BuildJoinedRoom(model.DefaultRoom))
	logger.Infof("[chat] %s joined room: %s", c.Identity.Username, model.DefaultRoom)

	if err := storage.PresenceOnline(c.Identity.Username, g.gwID, presenceTTL); err != nil {
		logger.Debug("[chat] presence online mark skipped: " + err.Error())
	}
}

// HandleJoin moves the connection into roomName. Leaving the previous
// room emits a stop-typing side effect into it; joinedRoom goes to the
// caller only.
func (g *Gateway) HandleJoin(c *Client, roomName string) {
	if strings.TrimSpace(roomName) == "" {
		c.Enqueue(BuildMessageError("Room name cannot be empty."))
		return
	}

	prev := g.rooms.Join(c.ConnID, roomName)
	if prev != "" {
		g.typing.Stop(prev, c.Identity.Username)
		g.broadcastRoom(prev, BuildUserStoppedTyping(c.Identity.Username), "")
		logger.Infof("[chat] %s left room: %s", c.Identity.Username, prev)
	}

	c.Enqueue(BuildJoinedRoom(roomName))
	logger.Infof("[chat] %s joined room: %s", c.Identity.Username, roomName)
}

// HandleSend validates, persists, broadcasts and relays one message.
// Order matters: receiveMessage reaches every room member before the
// sender's stop-typing does, and the relay publish never fails the
// send path.
func (g *Gateway) HandleSend(ctx context.Context, c *Client, p *SendMessagePayload) {
	if !g.rooms.IsMember(c.ConnID, p.Room) {
		logger.Warnf("[chat] %s attempted to send to room %s without being in it", c.Identity.Username, p.Room)
		c.Enqueue(BuildMessageError("You are not in this room."))
		return
	}
	if strings.TrimSpace(p.Content) == "" {
		logger.Warn("[chat] invalid message content received - empty")
		c.Enqueue(BuildMessageError("Message content cannot be empty."))
		return
	}

	msg := model.NewMessage(c.Identity.Username, p.Content, p.Room)
	if err := g.store.Insert(ctx, msg); err != nil {
		logger.Errorf("[chat] error saving message: %v", err)
		c.Enqueue(BuildMessageError("Failed to send message."))
		return
	}

	g.broadcastRoom(p.Room, BuildReceiveMessage(msg), "")
	logger.Infof("[chat] message broadcasted to room %s: %s", p.Room, msg.Content)

	if err := g.pub.Publish(msg); err != nil {
		// Broker trouble never fails the send path; room members got
		// the direct broadcast, only the notification copy is lost.
		logger.Warnf("[chat] relay publish skipped: %v", err)
	}

	g.typing.Stop(p.Room, c.Identity.Username)
	g.broadcastRoom(p.Room, BuildUserStoppedTyping(c.Identity.Username), "")
}

// HandleTyping marks the sender as typing and tells the other members.
func (g *Gateway) HandleTyping(c *Client, roomName string) {
	if !g.rooms.IsMember(c.ConnID, roomName) {
		logger.Warnf("[chat] %s sent typing for room %s without being in it", c.Identity.Username, roomName)
		return
	}
	g.typing.Start(roomName, c.Identity.Username)
	g.broadcastRoom(roomName, BuildUserTyping(c.Identity.Username), c.ConnID)
}

// HandleStopTyping clears the typing mark and tells the other members.
func (g *Gateway) HandleStopTyping(c *Client, roomName string) {
	if !g.rooms.IsMember(c.ConnID, roomName) {
		logger.Warnf("[chat] %s sent stopTyping for room %s without being in it", c.Identity.Username, roomName)
		return
	}
	g.typing.Stop(roomName, c.Identity.Username)
	g.broadcastRoom(roomName, BuildUserStoppedTyping(c.Identity.Username), c.ConnID)
}

// HandleDisconnect releases all gateway state for the connection and
// emits the stop-typing side effect into its room.
func (g *Gateway) HandleDisconnect(c *Client) {
	room := g.rooms.Leave(c.ConnID)
	if room != "" {
		g.typing.Stop(room, c.Identity.Username)
		g.broadcastRoom(room, BuildUserStoppedTyping(c.Identity.Username), "")
	}

	g.mu.Lock()
	delete(g.clients, c.ConnID)
	g.mu.Unlock()
	c.Close()

	if err := storage.PresenceOffline(c.Identity.Username); err != nil {
		logger.Debug("[chat] presence offline mark skipped: " + err.Error())
	}
	logger.Infof("[chat] user disconnected: %s (conn %s)", c.Identity.Username, c.ConnID)
}

// broadcastRoom fans a frame out to every member of room; except skips
// one connection (socket.to semantics for typing events).
func (g *Gateway) broadcastRoom(room string, data []byte, except string) {
	ids := g.rooms.Members(room)
	if len(ids) == 0 {
		return
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, id := range ids {
		if id == except {
			continue
		}
		if c, ok := g.clients[id]; ok {
			c.Enqueue(data)
		}
	}
}
