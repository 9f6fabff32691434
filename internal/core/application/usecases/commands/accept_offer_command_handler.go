package commands

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/session"
	"courier-dispatch/internal/core/domain/services"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

var (
	// ErrAlreadyTaken is returned when the request is no longer PENDING, including when
	// another courier accepted it between the read and the write.
	ErrAlreadyTaken = errors.New("request was already taken")
	// ErrCourierBusy is returned when the courier still has an undelivered request.
	ErrCourierBusy = errors.New("courier already has an active request")
)

// AcceptOfferCommandHandler moves a request from PENDING to ACCEPTED for a courier.
//
// Example:
//
//	handler := NewAcceptOfferCommandHandler(requests, couriers, sessions, bus, metrics, time.Now)
//	cmd, _ := NewAcceptOfferCommand(courierID, requestID)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, ErrAlreadyTaken) {
//	    // someone else was faster
//	}
type AcceptOfferCommandHandler struct {
	requests  ports.RequestRepository
	couriers  ports.CourierRepository
	sessions  ports.SessionStore
	publisher ports.EventPublisher
	recorder  TransitionRecorder
	now       Clock
}

func NewAcceptOfferCommandHandler(
	requests ports.RequestRepository,
	couriers ports.CourierRepository,
	sessions ports.SessionStore,
	publisher ports.EventPublisher,
	recorder TransitionRecorder,
	now Clock,
) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		requests:  requests,
		couriers:  couriers,
		sessions:  sessions,
		publisher: orNopPublisher(publisher),
		recorder:  orNopRecorder(recorder),
		now:       orSystemClock(now),
	}
}

// Handle accepts the request. Of two couriers accepting the same request concurrently,
// exactly one succeeds; the other gets ErrAlreadyTaken.
func (h *AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	courierEntity, err := h.couriers.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if !courierEntity.IsOnline() {
		return services.ErrCourierUnavailable
	}

	_, err = h.requests.FindActiveByCourier(ctx, cmd.CourierID())
	switch {
	case err == nil:
		return ErrCourierBusy
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	request, err := h.requests.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}
	if request.Status() != delivery.Pending {
		return ErrAlreadyTaken
	}

	if err = request.Accept(cmd.CourierID()); err != nil {
		if errors.Is(err, errs.ErrInvalidTransition) {
			return ErrAlreadyTaken
		}
		return err
	}

	if err = h.requests.Update(ctx, request, delivery.Pending); err != nil {
		if errors.Is(err, errs.ErrObjectConflict) {
			return ErrAlreadyTaken
		}
		return err
	}

	var (
		offerID   kernel.UUID
		withdrawn bool
	)
	_, err = h.sessions.Update(ctx, cmd.CourierID(), func(s *session.Session) error {
		offerID, withdrawn = s.Withdraw()
		return nil
	})
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	h.recorder.ObserveTransition(request.Status().String())
	now := h.now()
	h.publisher.Publish(ctx, ports.Event{
		Kind:       ports.EventRequestTransitioned,
		OccurredAt: now,
		Request:    request.Clone(),
		RequestID:  request.ID(),
		CourierID:  cmd.CourierID(),
	})
	if withdrawn {
		h.publisher.Publish(ctx, ports.Event{
			Kind:       ports.EventOfferWithdrawn,
			OccurredAt: now,
			RequestID:  offerID,
			CourierID:  cmd.CourierID(),
		})
	}
	return nil
}
