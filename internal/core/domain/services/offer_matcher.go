package services

import (
	"errors"
	"slices"

	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/session"
)

var (
	// ErrCourierUnavailable is returned when the courier is offline or busy. Any offer the
	// courier holds must be withdrawn.
	ErrCourierUnavailable = errors.New("courier is offline or busy")

	// ErrNoPendingRequest is returned when every pending request was declined by the
	// courier, or there is none.
	ErrNoPendingRequest = errors.New("no pending request to offer")
)

// OfferMatcher selects the next request to offer to an idle courier.
type OfferMatcher struct{}

func NewOfferMatcher() OfferMatcher {
	return OfferMatcher{}
}

// Match returns the oldest PENDING request the courier has not declined in the
// current session.
//
// Parameters:
//   - c: the courier; must be online
//   - busy: whether the courier has an assigned request that is not delivered
//   - s: the courier's online session; nil means the courier is offline
//   - pending: candidate requests, in any order
//
// Returns:
//   - *delivery.Request: the selected request, never mutated
//   - error: ErrCourierUnavailable, ErrNoPendingRequest or a validation error
//
// Candidates are ordered by creation time, ties broken by id, so the choice is
// deterministic for a given input.
func (m OfferMatcher) Match(
	c *courier.Courier,
	busy bool,
	s *session.Session,
	pending []*delivery.Request,
) (*delivery.Request, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !c.IsOnline() || busy || s == nil {
		return nil, ErrCourierUnavailable
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	candidates := slices.Clone(pending)
	slices.SortStableFunc(candidates, compareByCreation)

	for _, r := range candidates {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if r.Status() != delivery.Pending || !r.IsResolved() {
			continue
		}
		if s.IsIgnored(r.ID()) {
			continue
		}
		return r, nil
	}

	return nil, ErrNoPendingRequest
}

func compareByCreation(a, b *delivery.Request) int {
	if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
		return c
	}
	return a.ID().Compare(b.ID())
}
