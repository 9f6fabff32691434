package commands

import (
	"context"

	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/ports"
)

// CreateCourierCommandHandler registers couriers.
type CreateCourierCommandHandler struct {
	couriers ports.CourierRepository
}

func NewCreateCourierCommandHandler(couriers ports.CourierRepository) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		couriers: couriers,
	}
}

// Handle creates the courier entity and persists it.
func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	courierEntity, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Location())
	if err != nil {
		return err
	}

	return h.couriers.Add(ctx, courierEntity)
}
