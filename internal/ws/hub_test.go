package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, h *Hub, userID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.ServeConn(w, r, userID); err != nil {
			t.Errorf("error serving connection: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("error dialing hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("error reading event: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("error decoding event: %v", err)
	}
	return ev
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ConnectedClients() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.ConnectedClients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	conn := dialTestHub(t, h, "u-1")
	waitForClients(t, h, 1)

	h.Publish(Event{Type: EventCollectionStatus, Message: "hello"})

	ev := readEvent(t, conn)
	if ev.Type != EventCollectionStatus || ev.Message != "hello" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestHubTargetedDelivery(t *testing.T) {
	h := NewHub()
	target := dialTestHub(t, h, "u-1")
	other := dialTestHub(t, h, "u-2")
	waitForClients(t, h, 2)

	h.Publish(Event{Type: EventOrganizationVerified, UserID: "u-1", Message: "for u-1 only"})

	ev := readEvent(t, target)
	if ev.UserID != "u-1" {
		t.Errorf("unexpected event: %+v", ev)
	}

	// The other connection gets nothing.
	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("expected no event for the other user")
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	h := NewHub()
	conn := dialTestHub(t, h, "u-1")
	waitForClients(t, h, 1)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.ConnectedClients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected client to be dropped, have %d", h.ConnectedClients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
