package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialSubscriber stands up a server-side connection subscribed to topic and
// returns the client end.
func dialSubscriber(t *testing.T, hub *Hub, topic string) *websocket.Conn {
	t.Helper()

	subscribed := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Subscribe(topic, conn)
		close(subscribed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	<-subscribed
	return client
}

func TestBroadcastFromConcurrentGoroutines(t *testing.T) {
	hub := NewHub()
	topic := SessionTopic("chat-1")
	client := dialSubscriber(t, hub, topic)

	// Cart updates and transcript messages land on the same session topic
	// from separate request goroutines; every write must still arrive whole.
	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hub.Broadcast(topic, "cart_updated", map[string]interface{}{"seq": n})
		}(i)
	}

	for i := 0; i < writers; i++ {
		_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
		var event Event
		if err := client.ReadJSON(&event); err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if event.Type != "cart_updated" {
			t.Fatalf("unexpected event type %q", event.Type)
		}
	}
	wg.Wait()
}

func TestSendDeliversSnapshot(t *testing.T) {
	hub := NewHub()
	topic := RestaurantTopic("rest-1")

	snapshot := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Subscribe(topic, conn)
		hub.Send(conn, "orders_snapshot", []string{"order-1"})
		close(snapshot)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	<-snapshot
	_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event Event
	if err := client.ReadJSON(&event); err != nil {
		t.Fatalf("snapshot read failed: %v", err)
	}
	if event.Type != "orders_snapshot" {
		t.Fatalf("unexpected event type %q", event.Type)
	}
}

func TestBroadcastToClosedConnection(t *testing.T) {
	hub := NewHub()
	topic := SessionTopic("chat-2")

	client := dialSubscriber(t, hub, topic)
	_ = client.Close()

	// A broadcast racing a disconnect logs the failed write and moves on;
	// it must never take the process down.
	hub.Broadcast(topic, "message", map[string]interface{}{"text": "hi"})
}

func TestUnsubscribeDropsWriteLock(t *testing.T) {
	hub := NewHub()
	topic := SessionTopic("chat-3")
	client := dialSubscriber(t, hub, topic)
	_ = client

	hub.mu.RLock()
	conns := len(hub.writeLocks)
	hub.mu.RUnlock()
	if conns != 1 {
		t.Fatalf("expected 1 tracked connection, got %d", conns)
	}

	var conn *websocket.Conn
	hub.mu.RLock()
	for c := range hub.subscribers[topic] {
		conn = c
	}
	hub.mu.RUnlock()

	hub.Unsubscribe(topic, conn)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if len(hub.subscribers) != 0 {
		t.Fatal("expected topic removed after last unsubscribe")
	}
	if len(hub.writeLocks) != 0 {
		t.Fatal("expected write lock released with the connection")
	}
}
