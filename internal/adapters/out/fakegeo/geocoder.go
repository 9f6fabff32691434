// Package fakegeo is a deterministic stand-in for a geocoding service. The same query
// always lands on the same point near a configured center, which makes demos and tests
// reproducible without network access.
package fakegeo

import (
	"context"
	"strings"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"

	"github.com/cespare/xxhash/v2"
)

// DefaultSpread is the maximum offset in degrees from the center (about 5.5 km).
const DefaultSpread = 0.05

var _ ports.Geocoder = (*Geocoder)(nil)

type Geocoder struct {
	center kernel.Location
	spread float64
}

func NewGeocoder(center kernel.Location, spread float64) (*Geocoder, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if spread <= 0 || spread > 1 {
		return nil, errs.NewValueIsOutOfRangeError("spread", spread, "0 (exclusive)", 1)
	}
	return &Geocoder{center: center, spread: spread}, nil
}

// Search never fails for a non-blank query.
func (g *Geocoder) Search(_ context.Context, query string) (ports.GeocodeHit, error) {
	key := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if key == "" {
		return ports.GeocodeHit{}, errs.NewObjectNotFoundError("geocode", query)
	}

	h := xxhash.Sum64String(key)
	dLat := unit(uint16(h)) * g.spread
	dLng := unit(uint16(h>>16)) * g.spread

	location, err := kernel.NewLocation(clampLat(g.center.Lat()+dLat), wrapLng(g.center.Lng()+dLng))
	if err != nil {
		return ports.GeocodeHit{}, err
	}
	return ports.GeocodeHit{
		Location:    location,
		DisplayName: strings.TrimSpace(query),
	}, nil
}

// unit maps v onto [-1, 1].
func unit(v uint16) float64 {
	return float64(v)/float64(^uint16(0))*2 - 1
}

func clampLat(lat float64) float64 {
	return max(-90, min(90, lat))
}

func wrapLng(lng float64) float64 {
	switch {
	case lng > 180:
		return lng - 360
	case lng < -180:
		return lng + 360
	default:
		return lng
	}
}
