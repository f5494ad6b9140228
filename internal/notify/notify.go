// Package notify keeps the transient success message shown after an admin
// action. A message clears itself after a fixed delay.
package notify

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultDelay is how long a message stays visible
const DefaultDelay = 3 * time.Second

const key = "flash"

// Message is one transient notification
type Message struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier holds the current message per audience. The admin panel uses a
// single shared audience.
type Notifier struct {
	delay time.Duration
	items *cache.Cache
}

// New creates a notifier whose messages expire after delay
func New(delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Notifier{
		delay: delay,
		items: cache.New(delay, delay),
	}
}

// Flash replaces the current message
func (n *Notifier) Flash(text string) Message {
	now := time.Now()
	m := Message{Text: text, CreatedAt: now, ExpiresAt: now.Add(n.delay)}
	n.items.Set(key, m, n.delay)
	return m
}

// Current returns the live message, if any
func (n *Notifier) Current() (Message, bool) {
	v, ok := n.items.Get(key)
	if !ok {
		return Message{}, false
	}
	return v.(Message), true
}

// Clear drops the current message
func (n *Notifier) Clear() {
	n.items.Delete(key)
}

// Delay is the configured visibility window
func (n *Notifier) Delay() time.Duration {
	return n.delay
}
