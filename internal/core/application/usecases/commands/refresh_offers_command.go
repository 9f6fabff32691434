package commands

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrRefreshOffersCommandIsNotConstructed = errors.New(
	"RefreshOffersCommand must be created via NewRefreshOffersCommand or NewRefreshCourierOfferCommand",
)

// RefreshOffersCommand re-evaluates the offer of every online courier, or of one courier.
type RefreshOffersCommand struct { //nolint:recvcheck //using for validation
	courierID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefreshOffersCommand targets every online session.
func NewRefreshOffersCommand() RefreshOffersCommand {
	return RefreshOffersCommand{guard: guard.NewConstructorGuard()}
}

// NewRefreshCourierOfferCommand targets the session of a single courier.
func NewRefreshCourierOfferCommand(courierID kernel.UUID) (RefreshOffersCommand, error) {
	if err := courierID.Validate(); err != nil {
		return RefreshOffersCommand{}, err
	}
	return RefreshOffersCommand{
		courierID: &courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RefreshOffersCommand) Validate() error {
	return c.guard.Validate(ErrRefreshOffersCommandIsNotConstructed)
}

// CourierID returns the targeted courier, or false when every session is targeted.
func (c RefreshOffersCommand) CourierID() (kernel.UUID, bool) {
	if c.courierID == nil {
		return kernel.UUID{}, false
	}
	return *c.courierID, true
}
