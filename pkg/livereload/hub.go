// Package livereload tells open browser tabs to reload when the site
// configuration changes during development.
//
// A Hub fans events out to every connected page. Slow listeners drop
// events instead of blocking the sender. Nothing is persisted or replayed.
package livereload

import (
	"sync"
	"time"
)

// Event is sent to connected pages as JSON.
type Event struct {
	Type   string    `json:"type"`
	Reason string    `json:"reason,omitempty"`
	Time   time.Time `json:"time"`
}

// Event types.
const (
	TypeHello  = "hello"
	TypeReload = "reload"
)

// ReloadEvent builds a reload event.
func ReloadEvent(reason string) Event {
	return Event{Type: TypeReload, Reason: reason, Time: time.Now().UTC()}
}

// Hub is an in-memory fan-out dispatcher, safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub returns a hub with per-listener buffer bufSize, 8 when <= 0.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 8
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister it.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers e to every listener with room in its buffer.
func (h *Hub) Broadcast(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- e:
		default:
		}
	}
}

// Size returns the number of listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Close unregisters every listener.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.listeners {
		delete(h.listeners, id)
		close(ch)
	}
}
