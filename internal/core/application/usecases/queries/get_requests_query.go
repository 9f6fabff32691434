package queries

import (
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/pkg/guard"
)

var ErrGetRequestsQueryIsNotConstructed = errors.New(
	"GetRequestsQuery must be created via NewGetRequestsQuery or NewGetRequestsByStatusQuery",
)

// GetRequestsQuery lists delivery requests, optionally restricted to one status.
type GetRequestsQuery struct {
	status *delivery.Status

	guard guard.ConstructorGuard
}

func NewGetRequestsQuery() GetRequestsQuery {
	return GetRequestsQuery{guard: guard.NewConstructorGuard()}
}

func NewGetRequestsByStatusQuery(status delivery.Status) (GetRequestsQuery, error) {
	if err := status.Validate(); err != nil {
		return GetRequestsQuery{}, err
	}
	return GetRequestsQuery{
		status: &status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetRequestsQuery) Validate() error {
	return q.guard.Validate(ErrGetRequestsQueryIsNotConstructed)
}

// Status returns the status filter, or false when every status is listed.
func (q GetRequestsQuery) Status() (delivery.Status, bool) {
	if q.status == nil {
		return delivery.Unknown, false
	}
	return *q.status, true
}
