package courier

import (
	"errors"
	"strings"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier represents a person delivering requests.
// It is an aggregate root that manages courier identity, current position and availability.
//
// Key responsibilities:
//   - Managing courier identity (ID, name)
//   - Tracking the last known position, used as the origin of the leg to pickup
//   - Tracking whether the courier is online and can receive offers
//
// Whether a courier is busy is not stored here: it is derived from the requests
// assigned to the courier that are not yet delivered.
//
// Example usage:
//
//	location, _ := kernel.NewLocation(-23.55, -46.63)
//	c, err := courier.NewCourier(kernel.NewUUID(), "John Doe", location)
//	if err != nil {
//	    // Handle construction error
//	}
//	c.GoOnline()
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// location is the last known position of the courier
	location kernel.Location
	// online tells whether the courier accepts offers
	online bool
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new offline Courier.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Human-readable name (must be non-empty after trimming)
//   - location: Initial position (must be valid location)
//
// Returns:
//   - *Courier: A fully initialized courier
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
func NewCourier(id kernel.UUID, name string, location kernel.Location) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setLocation(location),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier rebuilds a Courier from storage.
func RestoreCourier(id kernel.UUID, name string, location kernel.Location, online bool) (*Courier, error) {
	c, err := NewCourier(id, name, location)
	if err != nil {
		return nil, err
	}
	c.online = online
	return c, nil
}

// IsEqual compares couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// Validate checks that the courier was created by a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Location() kernel.Location {
	return c.location
}

func (c *Courier) IsOnline() bool {
	return c.online
}

// GoOnline marks the courier available for offers. It reports whether the state changed.
func (c *Courier) GoOnline() bool {
	changed := !c.online
	c.online = true
	return changed
}

// GoOffline marks the courier unavailable for offers. It reports whether the state changed.
func (c *Courier) GoOffline() bool {
	changed := c.online
	c.online = false
	return changed
}

// MoveTo updates the last known position.
func (c *Courier) MoveTo(location kernel.Location) error {
	return c.setLocation(location)
}

// Clone returns an independent copy.
func (c *Courier) Clone() *Courier {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
