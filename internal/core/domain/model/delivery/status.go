package delivery

import (
	"fmt"

	"courier-dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery request.
// The lifecycle is strictly linear: no branches, no skips and no way back.
//
// State transitions:
//
//	Pending ──> Accepted ──> PickedUp ──> ArrivedDestination ──> Delivered
//
// Delivered is terminal. Status values are ordered, so s.Next() is always s+1
// for every non-terminal state.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status. The request waits for a courier to accept it.
	Pending

	// Accepted means a courier took the request and is heading to the pickup stop.
	Accepted

	// PickedUp means the courier confirmed arrival at the pickup stop.
	PickedUp

	// ArrivedDestination means the courier confirmed arrival at the dropoff stop.
	ArrivedDestination

	// Delivered means the item was handed over and payment collected.
	Delivered
)

var statusNames = map[Status]string{
	Unknown:            "UNKNOWN",
	Pending:            "PENDING",
	Accepted:           "ACCEPTED",
	PickedUp:           "PICKED_UP",
	ArrivedDestination: "ARRIVED_DESTINATION",
	Delivered:          "DELIVERED",
}

//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
var statusValues = map[string]Status{
	"PENDING":             Pending,
	"ACCEPTED":            Accepted,
	"PICKED_UP":           PickedUp,
	"ARRIVED_DESTINATION": ArrivedDestination,
	"DELIVERED":           Delivered,
}

// AllStatuses lists the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Accepted, PickedUp, ArrivedDestination, Delivered}
}

// ParseStatus converts the upper-case wire name of a status back into a Status.
//
// Example:
//
//	s, err := delivery.ParseStatus("PICKED_UP")
func ParseStatus(s string) (Status, error) {
	status, ok := statusValues[s]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%q is not a valid status", s))
	}
	return status, nil
}

// Validate checks if the Status value is one of the five lifecycle states.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is Unknown or out of range
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case wire name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return statusNames[Unknown]
}

// Next returns the only status reachable from s. The boolean is false for
// Delivered and for invalid values.
func (s Status) Next() (Status, bool) {
	if s < Pending || s >= Delivered {
		return Unknown, false
	}
	return s + 1, true
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// HasCourier reports whether a request in this status must have a courier assigned.
func (s Status) HasCourier() bool {
	return s >= Accepted && s <= Delivered
}

// TransitionTo validates the edge s -> target and returns target when it is legal.
//
// Returns:
//   - (target, nil) when target is the direct successor of s
//   - (Unknown, *errs.InvalidTransitionError) otherwise
//
// Example:
//
//	next, err := delivery.Accepted.TransitionTo(delivery.Delivered)
//	// next = Unknown, errors.Is(err, errs.ErrInvalidTransition) = true
func (s Status) TransitionTo(target Status) (Status, error) {
	next, ok := s.Next()
	if !ok || next != target {
		return Unknown, errs.NewInvalidTransitionError(s, target)
	}
	return target, nil
}
