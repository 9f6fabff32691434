// Package requestrepo persists delivery requests in PostgreSQL through GORM.
// This package maps the request aggregate to a single table; addresses and resolved
// places are embedded columns with pickup_ and dropoff_ prefixes.
package requestrepo

import (
	"time"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RequestDTO represents the database structure for persisting request aggregates.
// Status and courier are indexed for the pending queue and the busy check.
type RequestDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Item           string     `gorm:"type:varchar(255);not null"`
	RecipientName  string     `gorm:"type:varchar(255);not null"`
	RecipientPhone string     `gorm:"type:varchar(64)"`
	Pickup         AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff        AddressDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	PickupPlace    PlaceDTO   `gorm:"embedded;embeddedPrefix:pickup_place_"`
	DropoffPlace   PlaceDTO   `gorm:"embedded;embeddedPrefix:dropoff_place_"`
	PaymentMethod  string     `gorm:"type:varchar(16);not null"`
	Payer          string     `gorm:"type:varchar(16);not null"`
	Status         string     `gorm:"type:varchar(32);not null;index"`
	CourierID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time  `gorm:"not null;index"`
}

// TableName overrides GORM's default naming convention to use "requests".
func (RequestDTO) TableName() string {
	return "requests"
}

// AddressDTO is the address text as typed by the user.
type AddressDTO struct {
	Street       string `gorm:"type:varchar(255)"`
	Number       string `gorm:"type:varchar(32)"`
	Neighborhood string `gorm:"type:varchar(255)"`
	City         string `gorm:"type:varchar(255)"`
}

// PlaceDTO is a resolved stop. All columns are NULL while the stop is unresolved.
type PlaceDTO struct {
	Lat         *float64 `gorm:"type:double precision"`
	Lng         *float64 `gorm:"type:double precision"`
	DisplayName *string  `gorm:"type:text"`
	Precision   *string  `gorm:"type:varchar(16)"`
}

func fromDomain(r *delivery.Request) RequestDTO {
	var courierID *uuid.UUID
	if id := r.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	pickupPlace, _ := r.Place(delivery.StopPickup)
	dropoffPlace, _ := r.Place(delivery.StopDropoff)

	return RequestDTO{
		ID:             r.ID().Bytes(),
		Item:           r.Item(),
		RecipientName:  r.Recipient().Name(),
		RecipientPhone: r.Recipient().Phone(),
		Pickup:         addressFromDomain(r.Address(delivery.StopPickup)),
		Dropoff:        addressFromDomain(r.Address(delivery.StopDropoff)),
		PickupPlace:    placeFromDomain(pickupPlace),
		DropoffPlace:   placeFromDomain(dropoffPlace),
		PaymentMethod:  r.PaymentMethod().String(),
		Payer:          r.Payer().String(),
		Status:         r.Status().String(),
		CourierID:      courierID,
		CreatedAt:      r.CreatedAt().UTC(),
	}
}

func addressFromDomain(a kernel.Address) AddressDTO {
	return AddressDTO{
		Street:       a.Street(),
		Number:       a.Number(),
		Neighborhood: a.Neighborhood(),
		City:         a.City(),
	}
}

func placeFromDomain(p kernel.Place) PlaceDTO {
	if p.Validate() != nil {
		return PlaceDTO{}
	}

	lat, lng := p.Location().Lat(), p.Location().Lng()
	name, precision := p.DisplayName(), p.Precision().String()
	return PlaceDTO{
		Lat:         &lat,
		Lng:         &lng,
		DisplayName: &name,
		Precision:   &precision,
	}
}

// toDomain reconstructs the aggregate through RestoreRequest, so rows violating the
// status/courier rule are rejected instead of silently loaded.
func toDomain(dto RequestDTO) (*delivery.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes(dto.CourierID[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	recipient, err := delivery.NewRecipient(dto.RecipientName, dto.RecipientPhone)
	if err != nil {
		return nil, err
	}
	method, err := delivery.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	payer, err := delivery.ParsePayer(dto.Payer)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pickupPlace, err := placeToDomain(dto.PickupPlace)
	if err != nil {
		return nil, err
	}
	dropoffPlace, err := placeToDomain(dto.DropoffPlace)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreRequest(delivery.Snapshot{
		ID:            id,
		Item:          dto.Item,
		Recipient:     recipient,
		Pickup:        addressToDomain(dto.Pickup),
		Dropoff:       addressToDomain(dto.Dropoff),
		PickupPlace:   pickupPlace,
		DropoffPlace:  dropoffPlace,
		PaymentMethod: method,
		Payer:         payer,
		Status:        status,
		CourierID:     courierID,
		CreatedAt:     dto.CreatedAt,
	})
}

func addressToDomain(dto AddressDTO) kernel.Address {
	return kernel.NewAddress(dto.Street, dto.Number, dto.Neighborhood, dto.City)
}

func placeToDomain(dto PlaceDTO) (kernel.Place, error) {
	if dto.Lat == nil || dto.Lng == nil || dto.Precision == nil {
		return kernel.Place{}, nil
	}

	loc, err := kernel.NewLocation(*dto.Lat, *dto.Lng)
	if err != nil {
		return kernel.Place{}, err
	}
	precision, err := kernel.ParsePrecision(*dto.Precision)
	if err != nil {
		return kernel.Place{}, err
	}

	var name string
	if dto.DisplayName != nil {
		name = *dto.DisplayName
	}
	return kernel.NewPlace(loc, name, precision)
}
