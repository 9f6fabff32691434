// Package sessionstore keeps online courier sessions in process memory.
//
// Sessions are never persisted. After a restart the next online call starts a fresh
// session with an empty ignored set.
package sessionstore

import (
	"context"
	"slices"
	"sync"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/session"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

var _ ports.SessionStore = (*Store)(nil)

type Store struct {
	mu       sync.Mutex
	sessions map[kernel.UUID]*session.Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[kernel.UUID]*session.Session),
	}
}

// Start stores s, replacing any session the courier had.
func (st *Store) Start(_ context.Context, s *session.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.sessions[s.CourierID()] = s.Clone()
	return nil
}

func (st *Store) Get(_ context.Context, courierID kernel.UUID) (*session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[courierID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", courierID.String())
	}
	return s.Clone(), nil
}

// Update applies fn to a copy of the session under the store lock and keeps the copy
// only when fn succeeds. Calls for the same store are serialized.
func (st *Store) Update(
	_ context.Context,
	courierID kernel.UUID,
	fn func(*session.Session) error,
) (*session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[courierID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", courierID.String())
	}

	working := s.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	st.sessions[courierID] = working
	return working.Clone(), nil
}

// End removes the courier's session. Ending a missing session is not an error.
func (st *Store) End(_ context.Context, courierID kernel.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	delete(st.sessions, courierID)
	return nil
}

// List returns every session, oldest first.
func (st *Store) List(_ context.Context) ([]*session.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	result := make([]*session.Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		result = append(result, s.Clone())
	}
	slices.SortFunc(result, func(a, b *session.Session) int {
		if c := a.StartedAt().Compare(b.StartedAt()); c != 0 {
			return c
		}
		return a.CourierID().Compare(b.CourierID())
	})
	return result, nil
}
