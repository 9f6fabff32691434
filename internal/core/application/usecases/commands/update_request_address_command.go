package commands

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrUpdateRequestAddressCommandIsNotConstructed = errors.New(
	"UpdateRequestAddressCommand must be created via NewUpdateRequestAddressCommand constructor",
)

// UpdateRequestAddressCommand replaces the pickup or dropoff address of a PENDING request.
type UpdateRequestAddressCommand struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID
	stop      delivery.Stop
	address   kernel.Address

	guard guard.ConstructorGuard
}

func NewUpdateRequestAddressCommand(
	requestID kernel.UUID,
	stop delivery.Stop,
	address kernel.Address,
) (UpdateRequestAddressCommand, error) {
	command := UpdateRequestAddressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRequestID(requestID),
		command.setStop(stop),
		command.setAddress(address),
	); err != nil {
		return UpdateRequestAddressCommand{}, err
	}

	return command, nil
}

func (c UpdateRequestAddressCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRequestAddressCommandIsNotConstructed)
}

func (c UpdateRequestAddressCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c UpdateRequestAddressCommand) Stop() delivery.Stop {
	return c.stop
}

func (c UpdateRequestAddressCommand) Address() kernel.Address {
	return c.address
}

func (c *UpdateRequestAddressCommand) setRequestID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requestID = id
	return nil
}

func (c *UpdateRequestAddressCommand) setStop(stop delivery.Stop) error {
	if err := stop.Validate(); err != nil {
		return err
	}
	c.stop = stop
	return nil
}

func (c *UpdateRequestAddressCommand) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	c.address = address
	return nil
}
