package ports

import (
	"context"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
)

// RequestFilter narrows List. A zero filter matches every request.
type RequestFilter struct {
	Status    *delivery.Status
	CourierID *kernel.UUID
}

// RequestRepository stores delivery requests.
//
// Every method that returns requests returns copies: mutating them has no effect
// until they are written back with Update, and no caller can observe a status that
// was committed by someone else without reading again.
type RequestRepository interface {
	// Add stores a new request.
	Add(ctx context.Context, request *delivery.Request) error

	// Update writes the request only if the stored status still equals expected.
	// When it does not, nothing is written and an error wrapping errs.ErrObjectConflict
	// is returned. An unknown id returns errs.ErrObjectNotFound.
	Update(ctx context.Context, request *delivery.Request, expected delivery.Status) error

	// Get returns the request or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Request, error)

	// List returns the matching requests ordered by creation time, then id.
	List(ctx context.Context, filter RequestFilter) ([]*delivery.Request, error)

	// ListPending returns the PENDING requests ordered by creation time, then id.
	ListPending(ctx context.Context) ([]*delivery.Request, error)

	// FindActiveByCourier returns the courier's assigned request that is not delivered,
	// or an errs.ObjectNotFoundError when the courier is idle.
	FindActiveByCourier(ctx context.Context, courierID kernel.UUID) (*delivery.Request, error)
}
