// Package eventbus fans post-commit events out to in-process subscribers: the offer
// refresh job, the courier tracking job and websocket observers.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"courier-dispatch/internal/core/ports"
)

var (
	_ ports.EventPublisher  = (*Bus)(nil)
	_ ports.EventSubscriber = (*Bus)(nil)
)

// DropCounter is incremented for every event a full subscriber could not take.
type DropCounter interface {
	Inc()
}

// Bus delivers every published event to every subscriber. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu      sync.RWMutex
	nextID  uint64
	subs    map[uint64]chan ports.Event
	dropped DropCounter
	logger  *slog.Logger
}

func NewBus(dropped DropCounter, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:    make(map[uint64]chan ports.Event),
		dropped: dropped,
		logger:  logger.With("component", "event_bus"),
	}
}

func (b *Bus) Publish(ctx context.Context, event ports.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			if b.dropped != nil {
				b.dropped.Inc()
			}
			b.logger.DebugContext(ctx, "subscriber is full, event dropped",
				"subscriber", id, "kind", string(event.Kind))
		}
	}
}

// Subscribe registers a subscriber with the given channel buffer. The returned
// function unsubscribes and closes the channel; calling it again is a no-op.
func (b *Bus) Subscribe(buffer int) (<-chan ports.Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan ports.Event, buffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}

// Subscribers reports how many subscribers are registered.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
