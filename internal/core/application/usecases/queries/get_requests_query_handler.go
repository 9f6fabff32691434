package queries

import (
	"context"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/ports"
)

type GetRequestsQueryHandler struct {
	requests ports.RequestRepository
}

func NewGetRequestsQueryHandler(requests ports.RequestRepository) GetRequestsQueryHandler {
	return GetRequestsQueryHandler{requests: requests}
}

// Handle returns request snapshots, oldest first.
func (h GetRequestsQueryHandler) Handle(ctx context.Context, query GetRequestsQuery) ([]*delivery.Request, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var filter ports.RequestFilter
	if status, ok := query.Status(); ok {
		filter.Status = &status
	}
	return h.requests.List(ctx, filter)
}
