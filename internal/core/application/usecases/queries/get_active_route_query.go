package queries

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

var ErrGetActiveRouteQueryIsNotConstructed = errors.New(
	"GetActiveRouteQuery must be created via NewGetActiveRouteQuery constructor",
)

type (
	// RouteComputer produces a drawable path between two points, never failing for
	// valid endpoints.
	RouteComputer interface {
		ComputeRoute(ctx context.Context, origin, destination kernel.Location) (route.Path, error)
	}

	// TrackSource exposes the simulated movement of tracked requests.
	TrackSource interface {
		Snapshot(requestID kernel.UUID) (TrackSnapshot, bool)
	}

	// TrackSnapshot is the simulated state of one request's active leg.
	TrackSnapshot struct {
		Leg      delivery.Leg
		Path     route.Path
		Position kernel.Location
		Progress float64
	}
)

// GetActiveRouteQuery asks for the leg a request is currently moving along.
// For PENDING requests a courier must be named, since the leg starts at the courier.
type GetActiveRouteQuery struct {
	requestID kernel.UUID
	courierID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveRouteQuery builds the query. courierID may be nil for requests that
// already have a courier.
func NewGetActiveRouteQuery(requestID kernel.UUID, courierID *kernel.UUID) (GetActiveRouteQuery, error) {
	if err := requestID.Validate(); err != nil {
		return GetActiveRouteQuery{}, err
	}

	q := GetActiveRouteQuery{
		requestID: requestID,
		guard:     guard.NewConstructorGuard(),
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return GetActiveRouteQuery{}, err
		}
		id := *courierID
		q.courierID = &id
	}
	return q, nil
}

func (q GetActiveRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRouteQueryIsNotConstructed)
}

func (q GetActiveRouteQuery) RequestID() kernel.UUID {
	return q.requestID
}

func (q GetActiveRouteQuery) CourierID() (kernel.UUID, bool) {
	if q.courierID == nil {
		return kernel.UUID{}, false
	}
	return *q.courierID, true
}

// GetActiveRouteQueryResponse carries the leg, the path to draw and where the courier
// is along it. Simulated is false when no movement has been simulated yet and Position
// is the leg origin.
type GetActiveRouteQueryResponse struct {
	Request   *delivery.Request
	Leg       delivery.Leg
	Path      route.Path
	Position  kernel.Location
	Progress  float64
	Simulated bool
}

type GetActiveRouteQueryHandler struct {
	requests ports.RequestRepository
	couriers ports.CourierRepository
	routes   RouteComputer
	tracks   TrackSource
}

// NewGetActiveRouteQueryHandler wires the handler. tracks may be nil when no simulation runs.
func NewGetActiveRouteQueryHandler(
	requests ports.RequestRepository,
	couriers ports.CourierRepository,
	routes RouteComputer,
	tracks TrackSource,
) GetActiveRouteQueryHandler {
	return GetActiveRouteQueryHandler{
		requests: requests,
		couriers: couriers,
		routes:   routes,
		tracks:   tracks,
	}
}

// Handle derives the active leg from the request status and the courier position.
//
// Returns:
//   - delivery.ErrNoActiveLeg for delivered requests
//   - an error wrapping errs.ErrValueIsRequired for a PENDING request without a courier
func (h GetActiveRouteQueryHandler) Handle(
	ctx context.Context,
	query GetActiveRouteQuery,
) (GetActiveRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetActiveRouteQueryResponse{}, err
	}

	request, err := h.requests.Get(ctx, query.RequestID())
	if err != nil {
		return GetActiveRouteQueryResponse{}, err
	}
	if request.Status() == delivery.Delivered {
		return GetActiveRouteQueryResponse{}, delivery.ErrNoActiveLeg
	}

	courierID, ok := query.CourierID()
	if assigned := request.Courier(); assigned != nil {
		courierID, ok = *assigned, true
	}
	if !ok {
		return GetActiveRouteQueryResponse{}, errs.NewValueIsRequiredError("courier_id")
	}

	c, err := h.couriers.Get(ctx, courierID)
	if err != nil {
		return GetActiveRouteQueryResponse{}, err
	}

	leg, err := request.ActiveLeg(c.Location())
	if err != nil {
		return GetActiveRouteQueryResponse{}, err
	}

	if h.tracks != nil && request.Courier() != nil {
		if snap, found := h.tracks.Snapshot(request.ID()); found && snap.Leg.SameEndpoints(leg) {
			return GetActiveRouteQueryResponse{
				Request:   request,
				Leg:       leg,
				Path:      snap.Path,
				Position:  snap.Position,
				Progress:  snap.Progress,
				Simulated: true,
			}, nil
		}
	}

	path, err := h.routes.ComputeRoute(ctx, leg.Origin(), leg.Destination())
	if err != nil {
		return GetActiveRouteQueryResponse{}, err
	}

	return GetActiveRouteQueryResponse{
		Request:  request,
		Leg:      leg,
		Path:     path,
		Position: leg.Origin(),
	}, nil
}
