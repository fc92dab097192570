package events

import (
	"sync"

	"github.com/phuslu/log"
)

const subscriberBuffer = 10

// Hub fans messages out to SSE subscribers. Slow subscribers miss messages
// instead of blocking publishers.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			h.dropped++
		}
	}
}

// Emit wraps data in an Event envelope and publishes it.
func (h *Hub) Emit(reqID, typ string, data any) {
	h.Publish(MakeEvent(reqID, typ, 1, data))
	log.Debug().Str("request_id", reqID).Str("type", typ).Msg("event published")
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped counts messages skipped because a subscriber's buffer was full.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
