package kernel

import (
	"fmt"

	"courier-dispatch/internal/pkg/errs"
)

// Precision is the confidence tier of a resolved coordinate.
// Higher values are more specific, so tiers can be compared with < and >.
type Precision int

const (
	// PrecisionUnknown is the zero value and is never produced by a successful resolution.
	PrecisionUnknown Precision = iota
	// PrecisionCity means only the city could be located.
	PrecisionCity
	// PrecisionNeighborhood means the neighborhood within the city was located.
	PrecisionNeighborhood
	// PrecisionStreet means the street was located but not the house number.
	PrecisionStreet
	// PrecisionExact means street and number were located.
	PrecisionExact
)

var precisionNames = map[Precision]string{
	PrecisionUnknown:      "unknown",
	PrecisionCity:         "city",
	PrecisionNeighborhood: "neighborhood",
	PrecisionStreet:       "street",
	PrecisionExact:        "exact",
}

var precisionValues = map[string]Precision{
	"city":         PrecisionCity,
	"neighborhood": PrecisionNeighborhood,
	"street":       PrecisionStreet,
	"exact":        PrecisionExact,
}

// ParsePrecision converts the lower-case tier name back into a Precision.
func ParsePrecision(s string) (Precision, error) {
	p, ok := precisionValues[s]
	if !ok {
		return PrecisionUnknown, errs.NewValueIsInvalidErrorWithCause(
			"precision", fmt.Errorf("%q is not a known precision tier", s))
	}
	return p, nil
}

func (p Precision) String() string {
	if name, ok := precisionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// Validate returns an error for PrecisionUnknown and out-of-range values.
func (p Precision) Validate() error {
	if p < PrecisionCity || p > PrecisionExact {
		return errs.NewValueIsOutOfRangeError("precision", int(p), int(PrecisionCity), int(PrecisionExact))
	}
	return nil
}
