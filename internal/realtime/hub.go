// Package realtime fans order change notifications out to dashboard subscribers.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	// EventResync asks subscribers to refetch without a specific row change.
	EventResync EventType = "RESYNC"
)

type ChangeEvent struct {
	Type       EventType `json:"type"`
	OrderID    uuid.UUID `json:"order_id,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Publisher accepts change events.
type Publisher interface {
	Publish(ev ChangeEvent)
}

// Hub delivers every published event to every live subscription.
// Delivery never blocks: a subscriber that has not drained its previous event
// keeps only that one, which is enough since any event means "refetch".
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscription)}
}

type Subscription struct {
	id   uint64
	hub  *Hub
	ch   chan ChangeEvent
	once sync.Once
}

// Events is closed after Unsubscribe.
func (s *Subscription) Events() <-chan ChangeEvent {
	return s.ch
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	sub := &Subscription{id: h.nextID, hub: h, ch: make(chan ChangeEvent, 1)}
	h.subs[sub.id] = sub
	return sub
}

func (h *Hub) Publish(ev ChangeEvent) {
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
