package http

import (
	"net/http"

	"courier-dispatch/internal/core/application/usecases/commands"
	"courier-dispatch/internal/core/application/usecases/queries"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CreateRequest handles POST /api/v1/requests. Both addresses are resolved before the
// request is stored; the stored request is returned.
func (s *Server) CreateRequest(ctx echo.Context) error {
	var body NewRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	recipient, err := delivery.NewRecipient(body.Recipient.Name, body.Recipient.Phone)
	if err != nil {
		return s.fail(ctx, err)
	}
	method, err := delivery.ParsePaymentMethod(body.PaymentMethod)
	if err != nil {
		return s.fail(ctx, err)
	}
	payer, err := delivery.ParsePayer(body.Payer)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateRequestCommand(
		body.Item, recipient, body.Pickup.toDomain(), body.Dropoff.toDomain(), method, payer)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.CreateRequest.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondRequest(ctx, http.StatusCreated, cmd.RequestID())
}

// GetRequests handles GET /api/v1/requests, optionally filtered by ?status=.
func (s *Server) GetRequests(ctx echo.Context) error {
	query := queries.NewGetRequestsQuery()
	if raw := ctx.QueryParam("status"); raw != "" {
		status, err := delivery.ParseStatus(raw)
		if err != nil {
			return s.fail(ctx, err)
		}
		if query, err = queries.NewGetRequestsByStatusQuery(status); err != nil {
			return s.fail(ctx, err)
		}
	}

	requests, err := s.handlers.GetRequests.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, fromRequests(requests))
}

// GetRequest handles GET /api/v1/requests/:id.
func (s *Server) GetRequest(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondRequest(ctx, http.StatusOK, id)
}

// UpdatePickup handles PUT /api/v1/requests/:id/pickup.
func (s *Server) UpdatePickup(ctx echo.Context) error {
	return s.updateAddress(ctx, delivery.StopPickup)
}

// UpdateDropoff handles PUT /api/v1/requests/:id/dropoff.
func (s *Server) UpdateDropoff(ctx echo.Context) error {
	return s.updateAddress(ctx, delivery.StopDropoff)
}

func (s *Server) updateAddress(ctx echo.Context, stop delivery.Stop) error {
	id, err := pathID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var body Address
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateRequestAddressCommand(id, stop, body.toDomain())
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.UpdateAddress.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondRequest(ctx, http.StatusOK, id)
}

// AdvanceStatus handles POST /api/v1/requests/:id/status. The target status must be the
// direct successor of the current one.
func (s *Server) AdvanceStatus(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var body AdvanceStatus
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	courierID, err := kernel.UUIDFromString(body.CourierID)
	if err != nil {
		return s.fail(ctx, err)
	}
	target, err := delivery.ParseStatus(body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAdvanceStatusCommand(id, courierID, target)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.AdvanceStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondRequest(ctx, http.StatusOK, id)
}

// GetActiveRoute handles GET /api/v1/requests/:id/route. Pending requests need
// ?courier_id= because their leg starts at the courier.
func (s *Server) GetActiveRoute(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	courierID, err := queryID(ctx, "courier_id")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetActiveRouteQuery(id, courierID)
	if err != nil {
		return s.fail(ctx, err)
	}
	active, err := s.handlers.GetActiveRoute.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, fromActiveRoute(active))
}

func (s *Server) respondRequest(ctx echo.Context, code int, id kernel.UUID) error {
	query, err := queries.NewGetRequestQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	request, err := s.handlers.GetRequest.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(code, fromRequest(request))
}
