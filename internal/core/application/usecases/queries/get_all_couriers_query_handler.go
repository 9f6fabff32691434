package queries

import (
	"context"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
)

// GetAllCouriersQueryHandler joins couriers with their active requests and sessions.
type GetAllCouriersQueryHandler struct {
	couriers ports.CourierRepository
	requests ports.RequestRepository
	sessions ports.SessionStore
}

func NewGetAllCouriersQueryHandler(
	couriers ports.CourierRepository,
	requests ports.RequestRepository,
	sessions ports.SessionStore,
) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{
		couriers: couriers,
		requests: requests,
		sessions: sessions,
	}
}

// Handle returns couriers ordered by name, then id.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers, err := h.couriers.List(ctx)
	if err != nil {
		return nil, err
	}

	all, err := h.requests.List(ctx, ports.RequestFilter{})
	if err != nil {
		return nil, err
	}
	active := make(map[kernel.UUID]kernel.UUID)
	for _, r := range all {
		if courierID := r.Courier(); courierID != nil && r.Status() != delivery.Delivered {
			active[*courierID] = r.ID()
		}
	}

	sessions, err := h.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	offers := make(map[kernel.UUID]kernel.UUID, len(sessions))
	for _, s := range sessions {
		if offerID, ok := s.Offer(); ok {
			offers[s.CourierID()] = offerID
		}
	}

	result := make([]GetAllCouriersQueryResponse, 0, len(couriers))
	for _, c := range couriers {
		item := GetAllCouriersQueryResponse{
			ID:       c.ID(),
			Name:     c.Name(),
			Location: c.Location(),
			Online:   c.IsOnline(),
		}
		if requestID, ok := active[c.ID()]; ok {
			item.ActiveRequestID = &requestID
		}
		if offerID, ok := offers[c.ID()]; ok {
			item.OfferRequestID = &offerID
		}
		result = append(result, item)
	}
	return result, nil
}
