// Package session models a courier's online session: the request currently offered
// to the courier and the set of requests the courier declined.
//
// A session exists from the moment a courier goes online until it goes offline.
// Ending the session is the only way to clear the ignored set. Requests are
// referenced by id only.
package session

import (
	"errors"
	"slices"
	"time"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"
)

var ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

type Session struct {
	courierID kernel.UUID
	startedAt time.Time
	offer     *kernel.UUID
	ignored   map[kernel.UUID]struct{}

	isConstructed bool
}

func NewSession(courierID kernel.UUID, startedAt time.Time) (*Session, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}
	if startedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("started at")
	}

	return &Session{
		courierID:     courierID,
		startedAt:     startedAt,
		ignored:       make(map[kernel.UUID]struct{}),
		isConstructed: true,
	}, nil
}

func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

func (s *Session) CourierID() kernel.UUID {
	return s.courierID
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Offer returns the request currently presented to the courier.
func (s *Session) Offer() (kernel.UUID, bool) {
	if s.offer == nil {
		return kernel.UUID{}, false
	}
	return *s.offer, true
}

// HasOffer reports whether requestID is the current offer.
func (s *Session) HasOffer(requestID kernel.UUID) bool {
	return s.offer != nil && s.offer.IsEqual(requestID)
}

// Present makes requestID the current offer, replacing any previous one.
// It reports whether the offer changed. Ignored requests are never presented.
func (s *Session) Present(requestID kernel.UUID) (bool, error) {
	if err := requestID.Validate(); err != nil {
		return false, err
	}
	if s.IsIgnored(requestID) {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"offer", errors.New("request was declined in this session"))
	}
	if s.HasOffer(requestID) {
		return false, nil
	}

	s.offer = &requestID
	return true, nil
}

// Withdraw clears the current offer and returns it, if any.
func (s *Session) Withdraw() (kernel.UUID, bool) {
	if s.offer == nil {
		return kernel.UUID{}, false
	}
	prev := *s.offer
	s.offer = nil
	return prev, true
}

// Decline adds requestID to the ignored set and clears the current offer when it
// is the declined request.
func (s *Session) Decline(requestID kernel.UUID) error {
	if err := requestID.Validate(); err != nil {
		return err
	}

	s.ignored[requestID] = struct{}{}
	if s.HasOffer(requestID) {
		s.offer = nil
	}
	return nil
}

func (s *Session) IsIgnored(requestID kernel.UUID) bool {
	_, ok := s.ignored[requestID]
	return ok
}

// Ignored returns the declined request ids in a stable order.
func (s *Session) Ignored() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(s.ignored))
	for id := range s.ignored {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, kernel.UUID.Compare)
	return ids
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.offer != nil {
		offer := *s.offer
		c.offer = &offer
	}
	c.ignored = make(map[kernel.UUID]struct{}, len(s.ignored))
	for id := range s.ignored {
		c.ignored[id] = struct{}{}
	}
	return &c
}
