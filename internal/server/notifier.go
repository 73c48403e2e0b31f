package server

import (
	"sync"
	"time"
)

// Event tells stream subscribers that the entity declarations changed.
type Event struct {
	Type     string    `json:"type"`
	Entities []string  `json:"entities"`
	At       time.Time `json:"at"`
}

// notifier fans events out to /api/events subscribers.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

func newNotifier() *notifier {
	return &notifier{listeners: make(map[chan Event]struct{})}
}

// subscribe returns a channel of events. The caller must unsubscribe.
func (n *notifier) subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

func (n *notifier) unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// broadcast never blocks: a subscriber that has not drained its previous
// event misses this one and sees the next.
func (n *notifier) broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (n *notifier) count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
