package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"
)

var (
	// ErrRequestIsNotConstructed is returned when a Request instance was not created through
	// NewRequest or RestoreRequest.
	ErrRequestIsNotConstructed = errors.New("Request must be created via NewRequest constructor")

	// ErrCourierRequired is returned when Accepted is requested without naming a courier.
	ErrCourierRequired = errs.NewValueIsRequiredError("courier")

	// ErrStopNotResolved is returned when an operation needs coordinates that were never resolved.
	ErrStopNotResolved = errs.NewValueIsRequiredError("resolved stop location")

	// ErrStopAlreadyResolved is returned when a resolved place would be overwritten.
	ErrStopAlreadyResolved = errs.NewValueIsInvalidErrorWithCause(
		"stop", errors.New("place is already resolved; change the address to re-resolve"))

	// ErrRequestNotEditable is returned when an address edit is attempted after acceptance.
	ErrRequestNotEditable = errs.NewValueIsInvalidErrorWithCause(
		"request", errors.New("addresses can only be changed while PENDING"))

	// ErrNoActiveLeg is returned by ActiveLeg for delivered requests.
	ErrNoActiveLeg = errs.NewObjectNotFoundError("active leg", "delivered request")
)

// Stop selects one of the two addresses of a request.
type Stop int

const (
	StopPickup Stop = iota + 1
	StopDropoff
)

func (s Stop) String() string {
	switch s {
	case StopPickup:
		return "pickup"
	case StopDropoff:
		return "dropoff"
	default:
		return fmt.Sprintf("Stop(%d)", int(s))
	}
}

func (s Stop) Validate() error {
	if s != StopPickup && s != StopDropoff {
		return errs.NewValueIsOutOfRangeError("stop", int(s), int(StopPickup), int(StopDropoff))
	}
	return nil
}

// Request is the delivery request aggregate and the only persistent object of the domain.
//
// Addresses carry the text the user typed; places carry the resolved coordinates. A place,
// once set, is only replaced by changing the address first, which drops it. Status changes
// go through the transition methods, each of which either fully succeeds or leaves the
// request untouched.
type Request struct {
	id            kernel.UUID
	item          string
	recipient     Recipient
	pickup        kernel.Address
	dropoff       kernel.Address
	pickupPlace   kernel.Place
	dropoffPlace  kernel.Place
	paymentMethod PaymentMethod
	payer         Payer
	status        Status
	courierID     *kernel.UUID
	createdAt     time.Time

	isConstructed bool
}

// NewRequest creates a PENDING request with unresolved stops.
//
// Parameters:
//   - id: unique identifier
//   - item: non-empty description of what is delivered
//   - recipient, pickup, dropoff: constructed value objects
//   - method, payer: payment terms
//   - createdAt: creation timestamp, used to order offers
//
// Returns:
//   - *Request: the new request
//   - error: every validation failure joined together
func NewRequest(
	id kernel.UUID,
	item string,
	recipient Recipient,
	pickup, dropoff kernel.Address,
	method PaymentMethod,
	payer Payer,
	createdAt time.Time,
) (*Request, error) {
	r := &Request{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setItem(item),
		r.setRecipient(recipient),
		r.setAddress(StopPickup, pickup),
		r.setAddress(StopDropoff, dropoff),
		r.setPayment(method, payer),
		r.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Snapshot carries every field of a Request. It is used by repositories to rehydrate
// stored requests; a zero Place means the stop is not resolved.
type Snapshot struct {
	ID            kernel.UUID
	Item          string
	Recipient     Recipient
	Pickup        kernel.Address
	Dropoff       kernel.Address
	PickupPlace   kernel.Place
	DropoffPlace  kernel.Place
	PaymentMethod PaymentMethod
	Payer         Payer
	Status        Status
	CourierID     *kernel.UUID
	CreatedAt     time.Time
}

// RestoreRequest rebuilds a Request from storage, enforcing the same invariants as
// NewRequest plus the status/courier consistency rule.
func RestoreRequest(s Snapshot) (*Request, error) {
	r, err := NewRequest(s.ID, s.Item, s.Recipient, s.Pickup, s.Dropoff, s.PaymentMethod, s.Payer, s.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	if s.Status.HasCourier() && s.CourierID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"courier", fmt.Errorf("%s request must have a courier", s.Status))
	}
	if !s.Status.HasCourier() && s.CourierID != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"courier", fmt.Errorf("%s request must not have a courier", s.Status))
	}
	if s.CourierID != nil {
		if err = s.CourierID.Validate(); err != nil {
			return nil, err
		}
		id := *s.CourierID
		r.courierID = &id
	}

	r.pickupPlace = s.PickupPlace
	r.dropoffPlace = s.DropoffPlace
	r.status = s.Status
	return r, nil
}

// Snapshot exports every field of the request, the inverse of RestoreRequest.
func (r *Request) Snapshot() Snapshot {
	return Snapshot{
		ID:            r.id,
		Item:          r.item,
		Recipient:     r.recipient,
		Pickup:        r.pickup,
		Dropoff:       r.dropoff,
		PickupPlace:   r.pickupPlace,
		DropoffPlace:  r.dropoffPlace,
		PaymentMethod: r.paymentMethod,
		Payer:         r.payer,
		Status:        r.status,
		CourierID:     r.Courier(),
		CreatedAt:     r.createdAt,
	}
}

// Validate checks that the request was created by a constructor.
func (r *Request) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRequestIsNotConstructed
	}
	return nil
}

// IsEqual compares requests by identity.
func (r *Request) IsEqual(other *Request) bool {
	return other != nil && r.id.IsEqual(other.id)
}

func (r *Request) ID() kernel.UUID {
	return r.id
}

func (r *Request) Item() string {
	return r.item
}

func (r *Request) Recipient() Recipient {
	return r.recipient
}

func (r *Request) PaymentMethod() PaymentMethod {
	return r.paymentMethod
}

func (r *Request) Payer() Payer {
	return r.payer
}

func (r *Request) Status() Status {
	return r.status
}

func (r *Request) CreatedAt() time.Time {
	return r.createdAt
}

// Courier returns the assigned courier, nil while PENDING.
func (r *Request) Courier() *kernel.UUID {
	if r.courierID == nil {
		return nil
	}
	id := *r.courierID
	return &id
}

// IsAssignedTo reports whether courierID is the assigned courier.
func (r *Request) IsAssignedTo(courierID kernel.UUID) bool {
	return r.courierID != nil && r.courierID.IsEqual(courierID)
}

// Address returns the address text of a stop.
func (r *Request) Address(stop Stop) kernel.Address {
	if stop == StopDropoff {
		return r.dropoff
	}
	return r.pickup
}

// Place returns the resolved place of a stop and whether it is set.
func (r *Request) Place(stop Stop) (kernel.Place, bool) {
	p := r.pickupPlace
	if stop == StopDropoff {
		p = r.dropoffPlace
	}
	return p, p.Validate() == nil
}

// IsResolved reports whether both stops have coordinates.
func (r *Request) IsResolved() bool {
	_, pickup := r.Place(StopPickup)
	_, dropoff := r.Place(StopDropoff)
	return pickup && dropoff
}

// ResolveStop attaches the geocoded place of a stop. It fails when the stop already has one.
func (r *Request) ResolveStop(stop Stop, place kernel.Place) error {
	if err := errors.Join(stop.Validate(), place.Validate()); err != nil {
		return err
	}
	if _, ok := r.Place(stop); ok {
		return ErrStopAlreadyResolved
	}

	if stop == StopDropoff {
		r.dropoffPlace = place
	} else {
		r.pickupPlace = place
	}
	return nil
}

// ChangeAddress replaces the address of a stop while the request is PENDING.
// A different address drops the stop's place, so the caller has to resolve it again.
// Setting the same address is a no-op and keeps the place.
//
// Returns:
//   - changed: whether the stop now needs resolution
//   - error: ErrRequestNotEditable after acceptance, validation errors otherwise
func (r *Request) ChangeAddress(stop Stop, address kernel.Address) (bool, error) {
	if err := errors.Join(stop.Validate(), address.Validate()); err != nil {
		return false, err
	}
	if r.status != Pending {
		return false, ErrRequestNotEditable
	}
	if r.Address(stop).IsEqual(address) {
		return false, nil
	}

	if stop == StopDropoff {
		r.dropoff = address
		r.dropoffPlace = kernel.Place{}
	} else {
		r.pickup = address
		r.pickupPlace = kernel.Place{}
	}
	return true, nil
}

// Accept performs PENDING -> ACCEPTED and records the courier.
// Both stops must be resolved.
func (r *Request) Accept(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return ErrCourierRequired
	}
	next, err := r.status.TransitionTo(Accepted)
	if err != nil {
		return err
	}
	if !r.IsResolved() {
		return ErrStopNotResolved
	}

	r.status = next
	r.courierID = &courierID
	return nil
}

// ConfirmPickup performs ACCEPTED -> PICKED_UP.
func (r *Request) ConfirmPickup() error {
	return r.advance(PickedUp)
}

// ConfirmArrival performs PICKED_UP -> ARRIVED_DESTINATION.
func (r *Request) ConfirmArrival() error {
	return r.advance(ArrivedDestination)
}

// Complete performs ARRIVED_DESTINATION -> DELIVERED.
func (r *Request) Complete() error {
	return r.advance(Delivered)
}

// AdvanceTo dispatches to the transition that leads to target. Accepted cannot be
// reached this way because it needs a courier; use Accept.
func (r *Request) AdvanceTo(target Status) error {
	switch target {
	case Accepted:
		if r.status == Pending {
			return ErrCourierRequired
		}
		return errs.NewInvalidTransitionError(r.status, target)
	case PickedUp:
		return r.ConfirmPickup()
	case ArrivedDestination:
		return r.ConfirmArrival()
	case Delivered:
		return r.Complete()
	default:
		return errs.NewInvalidTransitionError(r.status, target)
	}
}

// ActiveLeg derives the leg the courier is moving along for the current status.
//
//   - PENDING, ACCEPTED: courierPosition -> pickup
//   - PICKED_UP: pickup -> dropoff
//   - ARRIVED_DESTINATION: pickup -> dropoff, terminal
//   - DELIVERED: ErrNoActiveLeg
//
// Once picked up the leg always runs between the fixed stops, regardless of where
// the courier actually is.
func (r *Request) ActiveLeg(courierPosition kernel.Location) (Leg, error) {
	pickup, hasPickup := r.Place(StopPickup)
	dropoff, hasDropoff := r.Place(StopDropoff)

	switch r.status {
	case Pending, Accepted:
		if !hasPickup {
			return Leg{}, ErrStopNotResolved
		}
		return newLeg(courierPosition, pickup.Location(), LegToPickup, false)
	case PickedUp, ArrivedDestination:
		if !hasPickup || !hasDropoff {
			return Leg{}, ErrStopNotResolved
		}
		return newLeg(pickup.Location(), dropoff.Location(), LegToDropoff, r.status == ArrivedDestination)
	case Delivered:
		return Leg{}, ErrNoActiveLeg
	default:
		return Leg{}, r.status.Validate()
	}
}

// Clone returns a deep copy. Repositories hand out clones so no caller can hold a
// reference that silently changes or goes stale.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	c := *r
	c.courierID = r.Courier()
	return &c
}

func (r *Request) advance(target Status) error {
	next, err := r.status.TransitionTo(target)
	if err != nil {
		return err
	}
	r.status = next
	return nil
}

func (r *Request) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Request) setItem(item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return errs.NewValueIsRequiredError("item")
	}
	r.item = item
	return nil
}

func (r *Request) setRecipient(recipient Recipient) error {
	if err := recipient.Validate(); err != nil {
		return err
	}
	r.recipient = recipient
	return nil
}

func (r *Request) setAddress(stop Stop, address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(stop.String()+" address", err)
	}
	if stop == StopDropoff {
		r.dropoff = address
	} else {
		r.pickup = address
	}
	return nil
}

func (r *Request) setPayment(method PaymentMethod, payer Payer) error {
	if err := errors.Join(method.Validate(), payer.Validate()); err != nil {
		return err
	}
	r.paymentMethod = method
	r.payer = payer
	return nil
}

func (r *Request) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	r.createdAt = createdAt
	return nil
}
