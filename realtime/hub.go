package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the envelope pushed to subscribers. Payloads are always full
// records or full state (the cart contract is replace-on-write), never diffs.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans events out to websocket subscribers grouped by topic. Topics are
// either one chat session (cart + transcript) or one restaurant (order feed
// for the admin console). Writes to a connection are serialized through a
// per-connection mutex: gorilla/websocket supports only one concurrent
// writer, and broadcasts reach the same connection from multiple request
// goroutines.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*websocket.Conn]bool
	writeLocks  map[*websocket.Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*websocket.Conn]bool),
		writeLocks:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

func SessionTopic(chatID string) string {
	return "session:" + chatID
}

func RestaurantTopic(restaurantID string) string {
	return "restaurant:" + restaurantID
}

func (h *Hub) Subscribe(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[topic][conn] = true
	if h.writeLocks[conn] == nil {
		h.writeLocks[conn] = &sync.Mutex{}
	}
	h.mu.Unlock()
}

func (h *Hub) Unsubscribe(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	if set := h.subscribers[topic]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.subscribers, topic)
		}
	}
	// Drop the write lock once the connection is out of every topic.
	still := false
	for _, set := range h.subscribers {
		if set[conn] {
			still = true
			break
		}
	}
	if !still {
		delete(h.writeLocks, conn)
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// target pairs a connection with its write lock so broadcasts can write
// outside the hub's own lock.
type target struct {
	conn *websocket.Conn
	mu   *sync.Mutex
}

func (t target) write(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

// Broadcast sends the event to every subscriber of the topic. Delivery is
// best-effort: a failed write is logged and the connection is left for its
// read loop to reap.
func (h *Hub) Broadcast(topic string, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Data: payload})
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", eventType, err)
		return
	}

	h.mu.RLock()
	targets := make([]target, 0, len(h.subscribers[topic]))
	for conn := range h.subscribers[topic] {
		targets = append(targets, target{conn: conn, mu: h.writeLocks[conn]})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		if err := t.write(data); err != nil {
			log.Printf("realtime: write to subscriber failed: %v", err)
		}
	}
}

// Send pushes an event to a single connection, used for the initial
// full-state snapshot on subscribe.
func (h *Hub) Send(conn *websocket.Conn, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Data: payload})
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", eventType, err)
		return
	}

	h.mu.RLock()
	lock := h.writeLocks[conn]
	h.mu.RUnlock()
	if lock == nil {
		// Not subscribed yet, so no other goroutine writes this connection.
		lock = &sync.Mutex{}
	}

	t := target{conn: conn, mu: lock}
	if err := t.write(data); err != nil {
		log.Printf("realtime: snapshot write failed: %v", err)
	}
}
