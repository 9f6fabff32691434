package ports

import (
	"context"

	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/kernel"
)

// CourierRepository stores couriers. Returned couriers are copies.
type CourierRepository interface {
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update overwrites the stored courier; an unknown id returns errs.ErrObjectNotFound.
	Update(ctx context.Context, aggregate *courier.Courier) error

	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// List returns every courier ordered by name, then id.
	List(ctx context.Context) ([]*courier.Courier, error)

	// ListOnline returns the couriers that are online, ordered like List.
	ListOnline(ctx context.Context) ([]*courier.Courier, error)
}
