package ports

import (
	"context"
	"time"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
)

// EventKind names what happened.
type EventKind string

const (
	EventRequestCreated      EventKind = "request.created"
	EventRequestUpdated      EventKind = "request.updated"
	EventRequestTransitioned EventKind = "request.transitioned"
	EventOfferPresented      EventKind = "offer.presented"
	EventOfferWithdrawn      EventKind = "offer.withdrawn"
	EventCourierPosition     EventKind = "courier.position"
	EventCourierAvailability EventKind = "courier.availability"
)

// Event is a post-commit notification. Request, when set, is a snapshot taken right after
// the change and is never mutated afterwards.
type Event struct {
	Kind       EventKind
	OccurredAt time.Time
	Request    *delivery.Request
	RequestID  kernel.UUID
	CourierID  kernel.UUID
	Position   kernel.Location
	Online     bool
}

// EventPublisher delivers events to subscribers. Publish never blocks on slow subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// EventSubscriber hands out event streams. The returned function unsubscribes and
// closes the channel.
type EventSubscriber interface {
	Subscribe(buffer int) (<-chan Event, func())
}
