package notifications

import (
	"sync"

	"github.com/byrencheema/tappy/pkg/logger"
)

const clientBufferSize = 100

// Hub fans notifications out to connected event stream clients. Each client
// gets a buffered channel; slow clients drop events rather than block the
// pipeline.
type Hub struct {
	mu      sync.Mutex
	clients map[chan *Notification]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[chan *Notification]struct{})}
}

// Subscribe registers a new client and returns its channel along with an
// unsubscribe function. The unsubscribe function is safe to call more than
// once.
func (h *Hub) Subscribe() (<-chan *Notification, func()) {
	ch := make(chan *Notification, clientBufferSize)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

// Broadcast delivers a notification to every connected client. Clients whose
// buffers are full miss the event.
func (h *Hub) Broadcast(n *Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- n:
		default:
			logger.L.WithField("notification_id", n.ID).
				Warn("dropping notification for slow event stream client")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients. Subsequent subscribes receive a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}
