package auth

import (
	"sync"
	"time"
)

// EventType names a session lifecycle event
type EventType string

const (
	EventSignedUp      EventType = "signed_up"
	EventVerified      EventType = "verified"
	EventSignedIn      EventType = "signed_in"
	EventSignedOut     EventType = "signed_out"
	EventPasswordReset EventType = "password_reset"
)

// Event is published whenever a session starts or ends
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

// Hub fans session events out to subscribers. Slow subscribers miss events
// rather than blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
}

// NewHub creates an empty event hub
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber with room in its buffer
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
