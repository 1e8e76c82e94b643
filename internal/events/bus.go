package events

import (
	"sync"
	"time"
)

// Bus funnels all engine events through a single ordered sink.
//
// Delivery is synchronous: Emit calls the sink inline while holding the bus
// lock, so events arrive in exactly the order they were emitted even under
// concurrent emitters. The sink must not call back into the bus.
type Bus struct {
	mu     sync.Mutex
	sink   func(Event)
	closed bool

	now func() time.Time
}

// NewBus returns an empty bus with no sink attached.
func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe attaches the sink. The bus carries exactly one consumer; a
// second call replaces the previous sink.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = fn
}

// Emit delivers ev to the sink. Events emitted with no sink attached or
// after Close are dropped silently.
func (b *Bus) Emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || b.sink == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = b.now()
	}
	b.sink(ev)
}

// Close detaches the sink permanently. Close is idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.sink = nil
}
