package commands

import (
	"errors"
	"strings"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

var ErrCreateRequestCommandIsNotConstructed = errors.New(
	"CreateRequestCommand must be created via NewCreateRequestCommand constructor",
)

// CreateRequestCommand represents a new delivery request typed by a user.
// The request ID is generated on construction so callers can fetch the stored request
// after the handler succeeds.
//
// Example:
//
//	cmd, err := NewCreateRequestCommand("documents", recipient, pickup, dropoff, delivery.PaymentPix, delivery.PayerSender)
//	if err != nil {
//	    return fmt.Errorf("invalid request data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	fmt.Printf("Created request %s", cmd.RequestID())
type CreateRequestCommand struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID
	item      string
	recipient delivery.Recipient
	pickup    kernel.Address
	dropoff   kernel.Address
	method    delivery.PaymentMethod
	payer     delivery.Payer

	guard guard.ConstructorGuard
}

// NewCreateRequestCommand validates the input and generates a request ID.
// Every validation failure is reported, joined together.
func NewCreateRequestCommand(
	item string,
	recipient delivery.Recipient,
	pickup, dropoff kernel.Address,
	method delivery.PaymentMethod,
	payer delivery.Payer,
) (CreateRequestCommand, error) {
	command := CreateRequestCommand{
		requestID: kernel.NewUUID(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setItem(item),
		command.setRecipient(recipient),
		command.setAddresses(pickup, dropoff),
		command.setPayment(method, payer),
	); err != nil {
		return CreateRequestCommand{}, err
	}

	return command, nil
}

func (c CreateRequestCommand) Validate() error {
	return c.guard.Validate(ErrCreateRequestCommandIsNotConstructed)
}

func (c CreateRequestCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c CreateRequestCommand) Item() string {
	return c.item
}

func (c CreateRequestCommand) Recipient() delivery.Recipient {
	return c.recipient
}

func (c CreateRequestCommand) Pickup() kernel.Address {
	return c.pickup
}

func (c CreateRequestCommand) Dropoff() kernel.Address {
	return c.dropoff
}

func (c CreateRequestCommand) PaymentMethod() delivery.PaymentMethod {
	return c.method
}

func (c CreateRequestCommand) Payer() delivery.Payer {
	return c.payer
}

func (c *CreateRequestCommand) setItem(item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return errs.NewValueIsRequiredError("item")
	}
	c.item = item
	return nil
}

func (c *CreateRequestCommand) setRecipient(recipient delivery.Recipient) error {
	if err := recipient.Validate(); err != nil {
		return err
	}
	c.recipient = recipient
	return nil
}

func (c *CreateRequestCommand) setAddresses(pickup, dropoff kernel.Address) error {
	var joined error
	if err := pickup.Validate(); err != nil {
		joined = errors.Join(joined, errs.NewValueIsRequiredErrorWithCause("pickup address", err))
	}
	if err := dropoff.Validate(); err != nil {
		joined = errors.Join(joined, errs.NewValueIsRequiredErrorWithCause("dropoff address", err))
	}
	if joined != nil {
		return joined
	}

	c.pickup = pickup
	c.dropoff = dropoff
	return nil
}

func (c *CreateRequestCommand) setPayment(method delivery.PaymentMethod, payer delivery.Payer) error {
	if err := errors.Join(method.Validate(), payer.Validate()); err != nil {
		return err
	}
	c.method = method
	c.payer = payer
	return nil
}
