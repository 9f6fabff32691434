package kernel

import (
	"strings"

	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly initialized Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is the structured postal address of a stop as typed by a user.
// All parts are trimmed on construction and any of them may be empty; whether an
// address is resolvable is decided by the geocoding cascade, not here.
//
// Address is an immutable value object. The zero value is invalid.
//
// Example:
//
//	addr := kernel.NewAddress("Rua X", "100", "Centro", "Y")
//	fmt.Println(addr) // Output: Rua X, 100, Centro, Y
type Address struct {
	street       string
	number       string
	neighborhood string
	city         string
	guard        guard.ConstructorGuard
}

// NewAddress creates an Address from its four parts, trimming surrounding whitespace.
func NewAddress(street, number, neighborhood, city string) Address {
	return Address{
		street:       strings.TrimSpace(street),
		number:       strings.TrimSpace(number),
		neighborhood: strings.TrimSpace(neighborhood),
		city:         strings.TrimSpace(city),
		guard:        guard.NewConstructorGuard(),
	}
}

// Validate checks if the Address was properly constructed.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street name.
func (a Address) Street() string {
	return a.street
}

// Number returns the house number.
func (a Address) Number() string {
	return a.number
}

// Neighborhood returns the neighborhood name.
func (a Address) Neighborhood() string {
	return a.neighborhood
}

// City returns the city name.
func (a Address) City() string {
	return a.city
}

// IsEqual reports whether both addresses have identical parts.
func (a Address) IsEqual(other Address) bool {
	return a.street == other.street &&
		a.number == other.number &&
		a.neighborhood == other.neighborhood &&
		a.city == other.city
}

// String joins the non-empty parts with ", ".
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.street, a.number, a.neighborhood, a.city} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
