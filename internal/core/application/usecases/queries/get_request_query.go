package queries

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/guard"
)

var ErrGetRequestQueryIsNotConstructed = errors.New(
	"GetRequestQuery must be created via NewGetRequestQuery constructor",
)

// GetRequestQuery fetches one request by id.
type GetRequestQuery struct {
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetRequestQuery(requestID kernel.UUID) (GetRequestQuery, error) {
	if err := requestID.Validate(); err != nil {
		return GetRequestQuery{}, err
	}
	return GetRequestQuery{
		requestID: requestID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetRequestQuery) Validate() error {
	return q.guard.Validate(ErrGetRequestQueryIsNotConstructed)
}

func (q GetRequestQuery) RequestID() kernel.UUID {
	return q.requestID
}

type GetRequestQueryHandler struct {
	requests ports.RequestRepository
}

func NewGetRequestQueryHandler(requests ports.RequestRepository) GetRequestQueryHandler {
	return GetRequestQueryHandler{requests: requests}
}

// Handle returns a snapshot of the request or an error wrapping errs.ErrObjectNotFound.
func (h GetRequestQueryHandler) Handle(ctx context.Context, query GetRequestQuery) (*delivery.Request, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.requests.Get(ctx, query.RequestID())
}
