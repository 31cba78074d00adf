package session

import "sync"

// Event reports a committed change in one session's store.
type Event struct {
	Session string // session ID
	Action  string // "waypoints" or "mode"
	Mode    string // mode after the change
	Count   int    // waypoints after the change
}

// Bus is a fan-out pub/sub for session change events. Each subscriber only
// receives events of the session it subscribed to.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]string
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]string)}
}

// Publish sends an event to the session's subscribers (non-blocking).
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, id := range b.subs {
		if id != e.Session {
			continue
		}
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives the events of session id.
func (b *Bus) Subscribe(id string) chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = id
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
