package queries

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

var ErrGetCurrentOfferQueryIsNotConstructed = errors.New(
	"GetCurrentOfferQuery must be created via NewGetCurrentOfferQuery constructor",
)

// GetCurrentOfferQuery returns the request currently presented to a courier.
type GetCurrentOfferQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCurrentOfferQuery(courierID kernel.UUID) (GetCurrentOfferQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCurrentOfferQuery{}, err
	}
	return GetCurrentOfferQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetCurrentOfferQuery) Validate() error {
	return q.guard.Validate(ErrGetCurrentOfferQueryIsNotConstructed)
}

func (q GetCurrentOfferQuery) CourierID() kernel.UUID {
	return q.courierID
}

// GetCurrentOfferQueryResponse pairs the offered request with the courier's declined set.
type GetCurrentOfferQueryResponse struct {
	CourierID kernel.UUID
	Request   *delivery.Request
	Ignored   []kernel.UUID
}

type GetCurrentOfferQueryHandler struct {
	requests ports.RequestRepository
	sessions ports.SessionStore
}

func NewGetCurrentOfferQueryHandler(
	requests ports.RequestRepository,
	sessions ports.SessionStore,
) GetCurrentOfferQueryHandler {
	return GetCurrentOfferQueryHandler{
		requests: requests,
		sessions: sessions,
	}
}

// Handle fails with an error wrapping errs.ErrObjectNotFound when the courier is offline
// or has no current offer.
func (h GetCurrentOfferQueryHandler) Handle(
	ctx context.Context,
	query GetCurrentOfferQuery,
) (GetCurrentOfferQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCurrentOfferQueryResponse{}, err
	}

	s, err := h.sessions.Get(ctx, query.CourierID())
	if err != nil {
		return GetCurrentOfferQueryResponse{}, err
	}
	offerID, ok := s.Offer()
	if !ok {
		return GetCurrentOfferQueryResponse{}, errs.NewObjectNotFoundError("offer", query.CourierID().String())
	}

	request, err := h.requests.Get(ctx, offerID)
	if err != nil {
		return GetCurrentOfferQueryResponse{}, err
	}

	return GetCurrentOfferQueryResponse{
		CourierID: query.CourierID(),
		Request:   request,
		Ignored:   s.Ignored(),
	}, nil
}
