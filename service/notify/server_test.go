package notify

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"relaychat/module/chat/model"
)

func dialNotify(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func waitForConns(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("hub count = %d, want %d", h.Count(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInboundFramesAreNotRebroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer()
	r := gin.New()
	srv.RegisterWS(r)
	ts := httptest.NewServer(r)
	defer ts.Close()

	victim := dialNotify(t, ts)
	defer victim.Close()
	sender := dialNotify(t, ts)
	defer sender.Close()
	waitForConns(t, srv.Hub(), 2)

	spoofed := EncodeNotification(model.NewMessage("admin", "spoofed", "general"))
	if err := sender.WriteMessage(websocket.TextMessage, spoofed); err != nil {
		t.Fatal(err)
	}

	// The protocol is server->client only: nothing a client sends may
	// reach another client. A read timeout poisons the gorilla conn,
	// so the positive case below uses the sender's connection.
	_ = victim.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, data, err := victim.ReadMessage(); err == nil {
		t.Fatalf("victim received a client-originated frame: %s", data)
	}

	// Queue-driven broadcasts still go out to every connection.
	srv.Hub().Broadcast(EncodeNotification(model.NewMessage("alice", "hello", "general")))
	_ = sender.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := sender.ReadMessage()
	if err != nil {
		t.Fatalf("broadcast not delivered: %v", err)
	}
	msg, ok := DecodeNotification(data)
	if !ok || msg.Sender != "alice" || msg.Content != "hello" {
		t.Errorf("broadcast payload = %s", data)
	}
}
