package monitor

import (
	"sync"

	"github.com/michaelkaiserz/mongomanager/pkg/logger"
)

// eventBuffer is the per-subscriber channel depth. A slow consumer that
// falls further behind than this loses events rather than slowing the
// scheduler down.
const eventBuffer = 16

// Hub fans probe events out to subscribed sessions, keyed by connection id.
// At most one subscriber per connection is kept: a new subscription replaces
// any previous one for the same id (last writer wins), so a fresh session
// works even if its predecessor never unsubscribed cleanly. Delivery is
// best-effort; events for a full or missing channel are dropped silently.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]chan *Event
}

// NewHub creates an empty subscription hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint]chan *Event),
	}
}

// Subscribe registers interest in a connection's events and returns the
// channel events arrive on. Any previous subscriber's channel is closed,
// signalling that session that it has been superseded.
func (h *Hub) Subscribe(connID uint) <-chan *Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.subs[connID]; ok {
		close(old)
		logger.Debugf("Replacing subscriber for connection %d", connID)
	}

	ch := make(chan *Event, eventBuffer)
	h.subs[connID] = ch
	return ch
}

// Unsubscribe removes the subscriber for a connection, if the given channel
// is still the registered one, and closes it. A session that was already
// superseded by a newer Subscribe leaves the newer registration untouched.
func (h *Hub) Unsubscribe(connID uint, ch <-chan *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.subs[connID]
	if !ok || (<-chan *Event)(current) != ch {
		return
	}
	delete(h.subs, connID)
	close(current)
}

// Drop removes and closes whatever subscription a connection has. Called
// when the connection is deleted from the registry.
func (h *Hub) Drop(connID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[connID]; ok {
		delete(h.subs, connID)
		close(ch)
	}
}

// Publish delivers an event to the connection's subscriber, if any. The
// send never blocks; a full channel drops the event.
func (h *Hub) Publish(connID uint, event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ch, ok := h.subs[connID]
	if !ok {
		return
	}

	select {
	case ch <- event:
	default:
		logger.Debugf("Dropping %s event for connection %d: subscriber not keeping up", event.Type, connID)
	}
}

// Subscribers returns the number of registered subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
