// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: a guarded command value validated on
// construction, and a handler that loads aggregates, applies one domain operation,
// commits it with a conditional write and publishes a post-commit event.
package commands

import (
	"context"
	"time"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
)

type (
	// AddressResolver resolves an address to a place, failing with an error wrapping
	// errs.ErrObjectNotFound when nothing matches.
	AddressResolver interface {
		Resolve(ctx context.Context, address kernel.Address) (kernel.Place, error)
	}

	// TransitionRecorder counts committed status changes by target status name.
	TransitionRecorder interface {
		ObserveTransition(status string)
	}

	// Clock returns the current time.
	Clock func() time.Time
)

type nopRecorder struct{}

func (nopRecorder) ObserveTransition(string) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ports.Event) {}

func orNopPublisher(p ports.EventPublisher) ports.EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func orNopRecorder(r TransitionRecorder) TransitionRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func orSystemClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
