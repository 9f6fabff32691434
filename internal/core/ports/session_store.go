package ports

import (
	"context"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/session"
)

// SessionStore keeps the online sessions of couriers. Sessions are volatile by nature
// and only live while the courier is online.
type SessionStore interface {
	// Start stores a session, replacing any previous session of the same courier.
	Start(ctx context.Context, s *session.Session) error

	// Get returns a copy of the courier's session or an errs.ObjectNotFoundError.
	Get(ctx context.Context, courierID kernel.UUID) (*session.Session, error)

	// Update applies fn to the courier's session. Calls for the same store are
	// serialized, and the change is discarded when fn returns an error.
	// The returned session is a copy of the committed state.
	Update(ctx context.Context, courierID kernel.UUID, fn func(*session.Session) error) (*session.Session, error)

	// End removes the courier's session. Ending a missing session is not an error.
	End(ctx context.Context, courierID kernel.UUID) error

	// List returns copies of every active session.
	List(ctx context.Context) ([]*session.Session, error)
}
