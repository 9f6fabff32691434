package kernel

import (
	"errors"

	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

// ErrPlaceIsNotConstructed is returned when attempting to use an improperly initialized Place.
var ErrPlaceIsNotConstructed = errs.NewValueIsRequiredError(
	"place must be created via NewPlace constructor")

// Place is the outcome of resolving an Address: where it is, how the geocoder named
// it and how precise the match was.
//
// Example:
//
//	loc, _ := kernel.NewLocation(-23.55, -46.63)
//	place, err := kernel.NewPlace(loc, "Rua X, 100, Y", kernel.PrecisionExact)
type Place struct {
	location    Location
	displayName string
	precision   Precision
	guard       guard.ConstructorGuard
}

// NewPlace creates a Place. The location must be constructed and the precision known.
// An empty display name is allowed; upstream services do not always provide one.
func NewPlace(location Location, displayName string, precision Precision) (Place, error) {
	if err := errors.Join(location.Validate(), precision.Validate()); err != nil {
		return Place{}, err
	}

	return Place{
		location:    location,
		displayName: displayName,
		precision:   precision,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Place was properly constructed.
func (p Place) Validate() error {
	return p.guard.Validate(ErrPlaceIsNotConstructed)
}

func (p Place) Location() Location {
	return p.location
}

func (p Place) DisplayName() string {
	return p.displayName
}

func (p Place) Precision() Precision {
	return p.precision
}
