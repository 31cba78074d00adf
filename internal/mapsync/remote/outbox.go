package remote

import "sync"

// Outbox is an unbounded FIFO of scripts waiting to be streamed to the
// browser. Push never blocks; a single-slot channel signals the reader.
type Outbox struct {
	mu      sync.Mutex
	scripts []string
	notify  chan struct{}
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{notify: make(chan struct{}, 1)}
}

// Push appends a script and wakes the reader.
func (o *Outbox) Push(script string) {
	o.mu.Lock()
	o.scripts = append(o.scripts, script)
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
}

// Notify returns a channel that receives after one or more Push calls.
func (o *Outbox) Notify() <-chan struct{} {
	return o.notify
}

// Drain removes and returns all pending scripts in push order.
func (o *Outbox) Drain() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	scripts := o.scripts
	o.scripts = nil
	return scripts
}

// Len returns the number of pending scripts.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.scripts)
}
