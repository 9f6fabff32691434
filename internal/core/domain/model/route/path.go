package route

import (
	"errors"
	"math"
	"slices"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"
)

// ErrPathIsEmpty is returned when a routed path would have no points.
var ErrPathIsEmpty = errs.NewValueIsRequiredError("route points")

// Source tells where a Path came from.
type Source string

const (
	// SourceRouted means the points came from the routing service.
	SourceRouted Source = "routed"
	// SourceSyntheticFallback means the points were built locally with the L rule.
	SourceSyntheticFallback Source = "synthetic-fallback"
)

func (s Source) String() string {
	return string(s)
}

// Path is an ordered, non-empty polyline approximating the travel path between two points.
type Path struct {
	points []kernel.Location
	source Source
}

// NewRoutedPath wraps the points returned by a routing service. The points are used
// verbatim; every point must be a constructed location.
func NewRoutedPath(points []kernel.Location) (Path, error) {
	if len(points) == 0 {
		return Path{}, ErrPathIsEmpty
	}

	var err error
	for _, p := range points {
		err = errors.Join(err, p.Validate())
	}
	if err != nil {
		return Path{}, err
	}

	return Path{points: slices.Clone(points), source: SourceRouted}, nil
}

// NewSyntheticPath builds the two-segment L path [origin, corner, destination].
//
// The corner keeps the origin's longitude and takes the destination's latitude when
// the latitude delta is strictly larger than the longitude delta; otherwise it keeps
// the origin's latitude and takes the destination's longitude.
//
// Example:
//
//	origin (0,0), destination (1,2): |Δlat| = 1 is not > |Δlng| = 2, corner = (0,2)
func NewSyntheticPath(origin, destination kernel.Location) (Path, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return Path{}, err
	}

	dLat := math.Abs(destination.Lat() - origin.Lat())
	dLng := math.Abs(destination.Lng() - origin.Lng())

	var (
		corner kernel.Location
		err    error
	)
	if dLat > dLng {
		corner, err = kernel.NewLocation(destination.Lat(), origin.Lng())
	} else {
		corner, err = kernel.NewLocation(origin.Lat(), destination.Lng())
	}
	if err != nil {
		return Path{}, err
	}

	return Path{
		points: []kernel.Location{origin, corner, destination},
		source: SourceSyntheticFallback,
	}, nil
}

// Points returns a copy of the polyline.
func (p Path) Points() []kernel.Location {
	return slices.Clone(p.points)
}

func (p Path) Source() Source {
	return p.source
}

// IsFallback reports whether the path was synthesized locally.
func (p Path) IsFallback() bool {
	return p.source == SourceSyntheticFallback
}

// IsEmpty reports whether the path is the zero value.
func (p Path) IsEmpty() bool {
	return len(p.points) == 0
}

// Origin returns the first point. It panics on the zero Path.
func (p Path) Origin() kernel.Location {
	return p.points[0]
}

// Destination returns the last point. It panics on the zero Path.
func (p Path) Destination() kernel.Location {
	return p.points[len(p.points)-1]
}

// LengthMeters sums the great-circle lengths of all segments.
func (p Path) LengthMeters() float64 {
	var total float64
	for i := 1; i < len(p.points); i++ {
		d, _ := p.points[i-1].DistanceTo(p.points[i])
		total += d
	}
	return total
}
