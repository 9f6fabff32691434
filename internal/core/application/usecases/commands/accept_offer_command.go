package commands

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrAcceptOfferCommandIsNotConstructed = errors.New(
	"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
)

// AcceptOfferCommand is a courier taking a PENDING request.
type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptOfferCommand(courierID, requestID kernel.UUID) (AcceptOfferCommand, error) {
	command := AcceptOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setRequestID(requestID),
	); err != nil {
		return AcceptOfferCommand{}, err
	}

	return command, nil
}

func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

func (c AcceptOfferCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c AcceptOfferCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c *AcceptOfferCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *AcceptOfferCommand) setRequestID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requestID = id
	return nil
}
