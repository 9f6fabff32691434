package commands

import (
	"context"
	"errors"
	"fmt"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/session"
	"courier-dispatch/internal/core/domain/services"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

// RefreshOffersCommandHandler keeps each session's current offer in line with the pending queue.
//
// For every targeted session the matcher picks the oldest pending request the courier has not
// declined. The session presents it, or withdraws its offer when the courier became unavailable
// or nothing is left. Events are published only when the offer actually changes, so subscribers
// reacting to offer events with another refresh reach a fixed point.
type RefreshOffersCommandHandler struct {
	requests  ports.RequestRepository
	couriers  ports.CourierRepository
	sessions  ports.SessionStore
	matcher   services.OfferMatcher
	publisher ports.EventPublisher
	now       Clock
}

func NewRefreshOffersCommandHandler(
	requests ports.RequestRepository,
	couriers ports.CourierRepository,
	sessions ports.SessionStore,
	matcher services.OfferMatcher,
	publisher ports.EventPublisher,
	now Clock,
) RefreshOffersCommandHandler {
	return RefreshOffersCommandHandler{
		requests:  requests,
		couriers:  couriers,
		sessions:  sessions,
		matcher:   matcher,
		publisher: orNopPublisher(publisher),
		now:       orSystemClock(now),
	}
}

// Handle refreshes every targeted session. A failure for one courier does not stop the
// others; all failures are returned joined.
func (h *RefreshOffersCommandHandler) Handle(ctx context.Context, cmd RefreshOffersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sessions, err := h.targetSessions(ctx, cmd)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}

	pending, err := h.requests.ListPending(ctx)
	if err != nil {
		return err
	}

	var joined error
	for _, s := range sessions {
		if err = h.refresh(ctx, s, pending); err != nil {
			joined = errors.Join(joined, fmt.Errorf("courier %s: %w", s.CourierID(), err))
		}
	}
	return joined
}

func (h *RefreshOffersCommandHandler) targetSessions(
	ctx context.Context,
	cmd RefreshOffersCommand,
) ([]*session.Session, error) {
	courierID, ok := cmd.CourierID()
	if !ok {
		return h.sessions.List(ctx)
	}

	s, err := h.sessions.Get(ctx, courierID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []*session.Session{s}, nil
}

func (h *RefreshOffersCommandHandler) refresh(
	ctx context.Context,
	s *session.Session,
	pending []*delivery.Request,
) error {
	courierEntity, err := h.couriers.Get(ctx, s.CourierID())
	if err != nil {
		return err
	}

	busy := true
	if _, err = h.requests.FindActiveByCourier(ctx, s.CourierID()); err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return err
		}
		busy = false
	}

	match, err := h.matcher.Match(courierEntity, busy, s, pending)
	switch {
	case err == nil:
		return h.present(ctx, s.CourierID(), match)
	case errors.Is(err, services.ErrCourierUnavailable), errors.Is(err, services.ErrNoPendingRequest):
		return h.withdraw(ctx, s.CourierID())
	default:
		return err
	}
}

func (h *RefreshOffersCommandHandler) present(
	ctx context.Context,
	courierID kernel.UUID,
	request *delivery.Request,
) error {
	var (
		previous    kernel.UUID
		hadPrevious bool
		changed     bool
	)
	_, err := h.sessions.Update(ctx, courierID, func(s *session.Session) error {
		var err error
		previous, hadPrevious = s.Offer()
		changed, err = s.Present(request.ID())
		return err
	})
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	now := h.now()
	if hadPrevious {
		h.publisher.Publish(ctx, ports.Event{
			Kind:       ports.EventOfferWithdrawn,
			OccurredAt: now,
			RequestID:  previous,
			CourierID:  courierID,
		})
	}
	h.publisher.Publish(ctx, ports.Event{
		Kind:       ports.EventOfferPresented,
		OccurredAt: now,
		Request:    request.Clone(),
		RequestID:  request.ID(),
		CourierID:  courierID,
	})
	return nil
}

func (h *RefreshOffersCommandHandler) withdraw(ctx context.Context, courierID kernel.UUID) error {
	var (
		previous  kernel.UUID
		withdrawn bool
	)
	_, err := h.sessions.Update(ctx, courierID, func(s *session.Session) error {
		previous, withdrawn = s.Withdraw()
		return nil
	})
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if withdrawn {
		h.publisher.Publish(ctx, ports.Event{
			Kind:       ports.EventOfferWithdrawn,
			OccurredAt: h.now(),
			RequestID:  previous,
			CourierID:  courierID,
		})
	}
	return nil
}
