package commands

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/session"
	"courier-dispatch/internal/core/domain/services"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

// DeclineOfferCommandHandler records a declined request in the courier's session.
// The request itself is not modified and stays available to other couriers.
type DeclineOfferCommandHandler struct {
	requests  ports.RequestRepository
	sessions  ports.SessionStore
	publisher ports.EventPublisher
	now       Clock
}

func NewDeclineOfferCommandHandler(
	requests ports.RequestRepository,
	sessions ports.SessionStore,
	publisher ports.EventPublisher,
	now Clock,
) DeclineOfferCommandHandler {
	return DeclineOfferCommandHandler{
		requests:  requests,
		sessions:  sessions,
		publisher: orNopPublisher(publisher),
		now:       orSystemClock(now),
	}
}

// Handle fails with services.ErrCourierUnavailable when the courier has no online session.
func (h *DeclineOfferCommandHandler) Handle(ctx context.Context, cmd DeclineOfferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := h.requests.Get(ctx, cmd.RequestID()); err != nil {
		return err
	}

	wasOffered := false
	_, err := h.sessions.Update(ctx, cmd.CourierID(), func(s *session.Session) error {
		wasOffered = s.HasOffer(cmd.RequestID())
		return s.Decline(cmd.RequestID())
	})
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return services.ErrCourierUnavailable
		}
		return err
	}

	if wasOffered {
		h.publisher.Publish(ctx, ports.Event{
			Kind:       ports.EventOfferWithdrawn,
			OccurredAt: h.now(),
			RequestID:  cmd.RequestID(),
			CourierID:  cmd.CourierID(),
		})
	}
	return nil
}
