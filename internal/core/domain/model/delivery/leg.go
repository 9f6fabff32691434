package delivery

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrLegIsNotConstructed = errors.New("Leg must be created via Request.ActiveLeg")

// LegKind tells which stop a leg leads to.
type LegKind int

const (
	LegUnknown LegKind = iota
	// LegToPickup runs from the courier's position to the pickup stop.
	LegToPickup
	// LegToDropoff runs from the pickup stop to the dropoff stop.
	LegToDropoff
)

func (k LegKind) String() string {
	switch k {
	case LegToPickup:
		return "to_pickup"
	case LegToDropoff:
		return "to_dropoff"
	default:
		return "unknown"
	}
}

// Leg is the origin -> destination pair a request's courier is currently moving between.
// It is a read-only projection of the request status and is never stored.
type Leg struct {
	origin      kernel.Location
	destination kernel.Location
	kind        LegKind
	terminal    bool
	guard       guard.ConstructorGuard
}

func newLeg(origin, destination kernel.Location, kind LegKind, terminal bool) (Leg, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return Leg{}, err
	}
	return Leg{
		origin:      origin,
		destination: destination,
		kind:        kind,
		terminal:    terminal,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (l Leg) Validate() error {
	return l.guard.Validate(ErrLegIsNotConstructed)
}

func (l Leg) Origin() kernel.Location {
	return l.origin
}

func (l Leg) Destination() kernel.Location {
	return l.destination
}

func (l Leg) Kind() LegKind {
	return l.kind
}

// IsTerminal reports whether the simulated marker must hold at the destination
// instead of looping back to the origin.
func (l Leg) IsTerminal() bool {
	return l.terminal
}

// SameEndpoints reports whether both legs connect the same two points.
func (l Leg) SameEndpoints(other Leg) bool {
	return l.origin == other.origin && l.destination == other.destination
}
