// Package feed fans settings changes out to live subscribers such as the
// notice-bar stream.
package feed

import (
	"sync"

	"github.com/glefebvre/cineflix/internal/logger"
	"github.com/glefebvre/cineflix/internal/models"
)

// DefaultBuffer is the channel size used when Subscribe gets zero
const DefaultBuffer = 4

// Hub is an in-process pub/sub of settings snapshots
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan models.Settings]struct{}
	log    *logger.Logger
	closed bool
}

// NewHub creates a hub. A nil logger uses the app logger.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.AppLogger()
	}
	return &Hub{
		subs: make(map[chan models.Settings]struct{}),
		log:  log,
	}
}

// Publish delivers a settings snapshot to every subscriber. Delivery never
// blocks: a subscriber whose buffer is full misses this snapshot.
func (h *Hub) Publish(s models.Settings) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	for ch := range h.subs {
		snapshot := s
		snapshot.Categories = append([]string(nil), s.Categories...)
		select {
		case ch <- snapshot:
		default:
			h.log.Warn("settings subscriber channel full, dropping update")
		}
	}
}

// Subscribe returns a channel receiving every published snapshot
func (h *Hub) Subscribe(buffer int) <-chan models.Settings {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan models.Settings, buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscription
func (h *Hub) Unsubscribe(sub <-chan models.Settings) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		if ch == sub {
			delete(h.subs, ch)
			close(ch)
			return
		}
	}
}

// Subscribers returns the number of live subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscription; later publishes are dropped
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
	}
	h.subs = nil
	return nil
}
