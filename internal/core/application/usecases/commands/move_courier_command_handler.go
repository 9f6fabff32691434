package commands

import (
	"context"

	"courier-dispatch/internal/core/ports"
)

// MoveCourierCommandHandler stores the last known position of a courier and publishes it.
type MoveCourierCommandHandler struct {
	couriers  ports.CourierRepository
	publisher ports.EventPublisher
	now       Clock
}

func NewMoveCourierCommandHandler(
	couriers ports.CourierRepository,
	publisher ports.EventPublisher,
	now Clock,
) MoveCourierCommandHandler {
	return MoveCourierCommandHandler{
		couriers:  couriers,
		publisher: orNopPublisher(publisher),
		now:       orSystemClock(now),
	}
}

func (h *MoveCourierCommandHandler) Handle(ctx context.Context, cmd MoveCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	courierEntity, err := h.couriers.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = courierEntity.MoveTo(cmd.Location()); err != nil {
		return err
	}
	if err = h.couriers.Update(ctx, courierEntity); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.Event{
		Kind:       ports.EventCourierPosition,
		OccurredAt: h.now(),
		CourierID:  cmd.CourierID(),
		Position:   cmd.Location(),
	})
	return nil
}
