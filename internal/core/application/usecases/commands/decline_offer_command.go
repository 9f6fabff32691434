package commands

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrDeclineOfferCommandIsNotConstructed = errors.New(
	"DeclineOfferCommand must be created via NewDeclineOfferCommand constructor",
)

// DeclineOfferCommand is a courier refusing a request for the rest of the online session.
type DeclineOfferCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeclineOfferCommand(courierID, requestID kernel.UUID) (DeclineOfferCommand, error) {
	command := DeclineOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setRequestID(requestID),
	); err != nil {
		return DeclineOfferCommand{}, err
	}

	return command, nil
}

func (c DeclineOfferCommand) Validate() error {
	return c.guard.Validate(ErrDeclineOfferCommandIsNotConstructed)
}

func (c DeclineOfferCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c DeclineOfferCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c *DeclineOfferCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *DeclineOfferCommand) setRequestID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requestID = id
	return nil
}
