// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
type CourierDTO struct {
	ID       uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name     string      `gorm:"type:varchar(255);not null;index"`
	Location LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Online   bool        `gorm:"not null;default:false;index"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO represents the embedded last known position of the courier.
type LocationDTO struct {
	Lat float64 `gorm:"type:double precision"`
	Lng float64 `gorm:"type:double precision"`
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:   c.ID().Bytes(),
		Name: c.Name(),
		Location: LocationDTO{
			Lat: c.Location().Lat(),
			Lng: c.Location().Lng(),
		},
		Online: c.IsOnline(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	loc, err := kernel.NewLocation(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, loc, dto.Online)
}
