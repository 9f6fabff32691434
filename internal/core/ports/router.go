package ports

import (
	"context"

	"courier-dispatch/internal/core/domain/model/kernel"
)

// Router asks a routing service for a driving path. A successful call returns the
// waypoints in travel order; an empty slice is a valid, if useless, answer.
type Router interface {
	Route(ctx context.Context, origin, destination kernel.Location) ([]kernel.Location, error)
}
