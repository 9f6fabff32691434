package ports

import (
	"context"

	"courier-dispatch/internal/core/domain/model/kernel"
)

// GeocodeHit is the best match a geocoding service returned for a free-text query.
type GeocodeHit struct {
	Location    kernel.Location
	DisplayName string
}

// Geocoder looks up a free-text query. When nothing matches it returns an error
// wrapping errs.ErrObjectNotFound; transport failures return any other error.
// Callers of the resolution cascade treat both the same way.
type Geocoder interface {
	Search(ctx context.Context, query string) (GeocodeHit, error)
}

// GeocodeCache remembers hits per normalized query.
type GeocodeCache interface {
	// Get returns the cached hit and whether it was present.
	Get(ctx context.Context, query string) (GeocodeHit, bool, error)
	Put(ctx context.Context, query string, hit GeocodeHit) error
}
