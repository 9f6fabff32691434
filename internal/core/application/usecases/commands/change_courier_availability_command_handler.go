package commands

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/session"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

// ChangeCourierAvailabilityCommandHandler opens and closes online sessions.
//
// Going online starts a fresh session with an empty ignored set. Going offline ends it,
// which withdraws any current offer and forgets every decline.
type ChangeCourierAvailabilityCommandHandler struct {
	couriers  ports.CourierRepository
	sessions  ports.SessionStore
	publisher ports.EventPublisher
	now       Clock
}

func NewChangeCourierAvailabilityCommandHandler(
	couriers ports.CourierRepository,
	sessions ports.SessionStore,
	publisher ports.EventPublisher,
	now Clock,
) ChangeCourierAvailabilityCommandHandler {
	return ChangeCourierAvailabilityCommandHandler{
		couriers:  couriers,
		sessions:  sessions,
		publisher: orNopPublisher(publisher),
		now:       orSystemClock(now),
	}
}

// Handle is idempotent: repeating the current availability changes nothing.
func (h *ChangeCourierAvailabilityCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeCourierAvailabilityCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	courierEntity, err := h.couriers.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	var changed bool
	if cmd.Online() {
		changed = courierEntity.GoOnline()
	} else {
		changed = courierEntity.GoOffline()
	}
	if changed {
		if err = h.couriers.Update(ctx, courierEntity); err != nil {
			return err
		}
	}

	if cmd.Online() {
		err = h.startSession(ctx, cmd)
	} else {
		err = h.endSession(ctx, cmd)
	}
	if err != nil {
		return err
	}

	if changed {
		h.publisher.Publish(ctx, ports.Event{
			Kind:       ports.EventCourierAvailability,
			OccurredAt: h.now(),
			CourierID:  cmd.CourierID(),
			Online:     cmd.Online(),
		})
	}
	return nil
}

// startSession keeps an existing session, so a repeated online call does not reset declines.
func (h *ChangeCourierAvailabilityCommandHandler) startSession(
	ctx context.Context,
	cmd ChangeCourierAvailabilityCommand,
) error {
	_, err := h.sessions.Get(ctx, cmd.CourierID())
	if err == nil || !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	s, err := session.NewSession(cmd.CourierID(), h.now())
	if err != nil {
		return err
	}
	return h.sessions.Start(ctx, s)
}

func (h *ChangeCourierAvailabilityCommandHandler) endSession(
	ctx context.Context,
	cmd ChangeCourierAvailabilityCommand,
) error {
	s, err := h.sessions.Get(ctx, cmd.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = h.sessions.End(ctx, cmd.CourierID()); err != nil {
		return err
	}
	if offerID, ok := s.Offer(); ok {
		h.publisher.Publish(ctx, ports.Event{
			Kind:       ports.EventOfferWithdrawn,
			OccurredAt: h.now(),
			RequestID:  offerID,
			CourierID:  cmd.CourierID(),
		})
	}
	return nil
}
