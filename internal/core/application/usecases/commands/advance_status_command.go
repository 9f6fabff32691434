package commands

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrAdvanceStatusCommandIsNotConstructed = errors.New(
	"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
)

// AdvanceStatusCommand asks to move an accepted request one step further,
// on behalf of the courier carrying it.
type AdvanceStatusCommand struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID
	courierID kernel.UUID
	target    delivery.Status

	guard guard.ConstructorGuard
}

func NewAdvanceStatusCommand(
	requestID, courierID kernel.UUID,
	target delivery.Status,
) (AdvanceStatusCommand, error) {
	command := AdvanceStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRequestID(requestID),
		command.setCourierID(courierID),
		command.setTarget(target),
	); err != nil {
		return AdvanceStatusCommand{}, err
	}

	return command, nil
}

func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

func (c AdvanceStatusCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c AdvanceStatusCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c AdvanceStatusCommand) Target() delivery.Status {
	return c.target
}

func (c *AdvanceStatusCommand) setRequestID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requestID = id
	return nil
}

func (c *AdvanceStatusCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *AdvanceStatusCommand) setTarget(target delivery.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}
