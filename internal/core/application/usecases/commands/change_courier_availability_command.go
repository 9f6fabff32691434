package commands

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrChangeCourierAvailabilityCommandIsNotConstructed = errors.New(
	"ChangeCourierAvailabilityCommand must be created via NewChangeCourierAvailabilityCommand constructor",
)

// ChangeCourierAvailabilityCommand switches a courier online or offline.
type ChangeCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	online    bool

	guard guard.ConstructorGuard
}

func NewChangeCourierAvailabilityCommand(courierID kernel.UUID, online bool) (ChangeCourierAvailabilityCommand, error) {
	if err := courierID.Validate(); err != nil {
		return ChangeCourierAvailabilityCommand{}, err
	}

	return ChangeCourierAvailabilityCommand{
		courierID: courierID,
		online:    online,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrChangeCourierAvailabilityCommandIsNotConstructed)
}

func (c ChangeCourierAvailabilityCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c ChangeCourierAvailabilityCommand) Online() bool {
	return c.online
}
