// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read through the repository ports and return copies or read models,
// never live aggregates.
package queries

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/guard"
)

var ErrGetAllCouriersQueryIsNotConstructed = errors.New(
	"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
)

// GetAllCouriersQuery retrieves every registered courier with its live state.
//
// Example:
//
//	query := NewGetAllCouriersQuery()
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
//	for _, c := range couriers {
//	    fmt.Printf("Courier %s at %s online=%t\n", c.Name, c.Location, c.Online)
//	}
type GetAllCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllCouriersQuery creates a query to retrieve all couriers.
func NewGetAllCouriersQuery() GetAllCouriersQuery {
	return GetAllCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

// GetAllCouriersQueryResponse is the courier read model.
// ActiveRequestID is set while the courier carries an undelivered request, and
// OfferRequestID while the courier's session presents an offer.
type GetAllCouriersQueryResponse struct {
	ID              kernel.UUID
	Name            string
	Location        kernel.Location
	Online          bool
	ActiveRequestID *kernel.UUID
	OfferRequestID  *kernel.UUID
}

// Busy reports whether the courier has an undelivered request.
func (r GetAllCouriersQueryResponse) Busy() bool {
	return r.ActiveRequestID != nil
}
