package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"relaychat/logger"
	"relaychat/module/chat/model"
)

const writeDeadline = 5 * time.Second

// TypeNewMessage tags every pushed notification.
const TypeNewMessage = "NEW_MESSAGE"

// Notification is the single server->client shape on the notification
// connection.
type Notification struct {
	Type string         `json:"type"`
	Data *model.Message `json:"data"`
}

func EncodeNotification(msg *model.Message) []byte {
	out, _ := json.Marshal(Notification{Type: TypeNewMessage, Data: msg})
	return out
}

// DecodeNotification parses an inbound frame; only NEW_MESSAGE frames
// with a payload are accepted.
func DecodeNotification(raw []byte) (*model.Message, bool) {
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false
	}
	if n.Type != TypeNewMessage || n.Data == nil {
		return nil, false
	}
	return n.Data, true
}

// Hub holds every open notification connection. No rooms, no backlog:
// new connections just enter the broadcast set, closed ones leave it.
type Hub struct {
	mu      sync.RWMutex
	conns   map[*websocket.Conn]struct{}
	writeMu sync.Mutex // serializes broadcasts; gorilla allows one writer per conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.conns[ws] = struct{}{}
	h.mu.Unlock()
	logger.Info("[notify] client connected")
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, ws)
	h.mu.Unlock()
	logger.Info("[notify] client disconnected")
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast pushes the payload to every open connection. Write errors
// only log; the read loop of the broken connection cleans it up.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for ws := range h.conns {
		conns = append(conns, ws)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, ws := range conns {
		_ = ws.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warnf("[notify] broadcast write failed: %v", err)
		}
	}
}
