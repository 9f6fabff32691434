package commands

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

// ErrNotAssignedCourier is returned when a courier tries to advance a request carried by someone else.
var ErrNotAssignedCourier = errors.New("request is assigned to another courier")

// AdvanceStatusCommandHandler drives ACCEPTED -> PICKED_UP -> ARRIVED_DESTINATION -> DELIVERED.
//
// Each call performs exactly one step. The write is conditional on the status that was read,
// so two concurrent calls for the same step cannot both succeed.
type AdvanceStatusCommandHandler struct {
	requests  ports.RequestRepository
	publisher ports.EventPublisher
	recorder  TransitionRecorder
	now       Clock
}

func NewAdvanceStatusCommandHandler(
	requests ports.RequestRepository,
	publisher ports.EventPublisher,
	recorder TransitionRecorder,
	now Clock,
) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{
		requests:  requests,
		publisher: orNopPublisher(publisher),
		recorder:  orNopRecorder(recorder),
		now:       orSystemClock(now),
	}
}

// Handle applies the transition. Illegal targets fail with an error wrapping
// errs.ErrInvalidTransition and leave the request untouched.
func (h *AdvanceStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	request, err := h.requests.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}

	expected := request.Status()
	if err = request.AdvanceTo(cmd.Target()); err != nil {
		return err
	}
	if !request.IsAssignedTo(cmd.CourierID()) {
		return ErrNotAssignedCourier
	}

	if err = h.requests.Update(ctx, request, expected); err != nil {
		if errors.Is(err, errs.ErrObjectConflict) {
			return errors.Join(err, errs.NewInvalidTransitionError(expected, cmd.Target()))
		}
		return err
	}

	h.recorder.ObserveTransition(request.Status().String())
	h.publisher.Publish(ctx, ports.Event{
		Kind:       ports.EventRequestTransitioned,
		OccurredAt: h.now(),
		Request:    request.Clone(),
		RequestID:  request.ID(),
		CourierID:  cmd.CourierID(),
	})
	return nil
}
