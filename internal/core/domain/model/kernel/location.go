package kernel

import (
	"errors"
	"fmt"
	"math"

	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in decimal degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in decimal degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in decimal degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in decimal degrees.
	LongitudeMax = 180.0

	earthRadiusMeters = 6_371_000.0
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly initialized Location.
// Locations must be created using the NewLocation constructor to ensure validity.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location represents a geographic coordinate pair (WGS84, decimal degrees).
// Location is an immutable value object that ensures coordinates are always within valid bounds.
// The zero value of Location is invalid and will fail validation - use NewLocation to create instances.
//
// Example:
//
//	loc, err := kernel.NewLocation(-23.5505, -46.6333)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Location: %s", loc) // Output: Location(-23.550500,-46.633300)
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation creates a new Location with the specified latitude and longitude.
// Latitude must be within [LatitudeMin..LatitudeMax] and longitude within
// [LongitudeMin..LongitudeMax]. NaN values are rejected.
//
// Parameters:
//   - lat: Latitude in decimal degrees
//   - lng: Longitude in decimal degrees
//
// Returns:
//   - Location: A valid location instance
//   - error: Validation error if coordinates are out of bounds
//
// Example:
//
//	loc, err := NewLocation(-23.5505, -46.6333)
//	if err != nil {
//	    log.Fatal("Invalid coordinates:", err)
//	}
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// MustNewLocation is like NewLocation but panics on invalid input.
// It is intended for constants and test fixtures only.
func MustNewLocation(lat, lng float64) Location {
	loc, err := NewLocation(lat, lng)
	if err != nil {
		panic(err)
	}
	return loc
}

// Validate checks if the Location was properly constructed using a constructor.
// The zero value of Location is invalid and will fail this validation.
//
// Returns:
//   - error: ErrLocationIsNotConstructed if the location was not properly initialized, nil otherwise
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in decimal degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// String returns a human-readable string representation of the Location.
// The format is "Location(lat,lng)" with six decimal places, which is useful for
// debugging and logging. This method implements the fmt.Stringer interface.
//
// Example:
//
//	loc, _ := NewLocation(1.5, 2)
//	fmt.Println(loc) // Output: Location(1.500000,2.000000)
func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.lat, l.lng)
}

// IsEqual compares two locations for exact equality of both coordinates.
// Both locations must be properly constructed (pass validation) for the comparison to succeed.
//
// Parameters:
//   - other: The Location to compare with
//
// Returns:
//   - bool: true if locations are equal, false otherwise
//   - error: Validation error if either location is improperly constructed
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lng == other.lng, nil
}

// DistanceTo calculates the great-circle distance in meters between two locations
// using the haversine formula. The result is symmetric and zero for equal points.
// Both locations must be properly constructed (pass validation) for the calculation to succeed.
//
// Parameters:
//   - other: The Location to calculate distance to
//
// Returns:
//   - float64: The distance in meters
//   - error: Validation error if either location is improperly constructed
//
// Example:
//
//	a, _ := NewLocation(0, 0)
//	b, _ := NewLocation(0, 1)
//	d, _ := a.DistanceTo(b) // d ≈ 111195
func (l Location) DistanceTo(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(l.lat)
	lat2 := toRadians(other.lat)
	dLat := lat2 - lat1
	dLng := toRadians(other.lng - l.lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h))), nil
}

// setLat sets the latitude with validation.
// Note: pointer receivers on the private setters let the constructor validate
// each field in place while the public API stays value-based.
func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	l.lat = lat
	return nil
}

// setLng sets the longitude with validation.
func (l *Location) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	l.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
