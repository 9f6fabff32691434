package http

import (
	"net/http"

	"courier-dispatch/internal/core/application/usecases/commands"
	"courier-dispatch/internal/core/application/usecases/queries"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateCourier handles POST /api/v1/couriers. The courier starts offline.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var body NewCourier
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if body.Location == nil {
		return badRequest(ctx, "location is required")
	}
	location, err := kernel.NewLocation(body.Location.Lat, body.Location.Lng)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateCourierCommand(body.Name, location)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.CreateCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondCourier(ctx, http.StatusCreated, cmd.CourierID())
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.handlers.GetAllCouriers.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Courier, len(couriers))
	for i, c := range couriers {
		response[i] = fromCourier(c)
	}
	return ctx.JSON(http.StatusOK, response)
}

// MoveCourier handles PUT /api/v1/couriers/:id/location.
func (s *Server) MoveCourier(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var body Location
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	location, err := kernel.NewLocation(body.Lat, body.Lng)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewMoveCourierCommand(id, location)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.MoveCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondCourier(ctx, http.StatusOK, id)
}

// GoOnline handles POST /api/v1/couriers/:id/online.
func (s *Server) GoOnline(ctx echo.Context) error {
	return s.changeAvailability(ctx, true)
}

// GoOffline handles POST /api/v1/couriers/:id/offline. Going offline withdraws the
// current offer and forgets declined requests.
func (s *Server) GoOffline(ctx echo.Context) error {
	return s.changeAvailability(ctx, false)
}

func (s *Server) changeAvailability(ctx echo.Context, online bool) error {
	id, err := pathID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewChangeCourierAvailabilityCommand(id, online)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.ChangeAvailability.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondCourier(ctx, http.StatusOK, id)
}

// GetCurrentOffer handles GET /api/v1/couriers/:id/offer. 404 means no offer right now.
func (s *Server) GetCurrentOffer(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetCurrentOfferQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	offer, err := s.handlers.GetCurrentOffer.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, fromOffer(offer))
}

// AcceptOffer handles POST /api/v1/couriers/:id/offer/accept and returns the accepted request.
func (s *Server) AcceptOffer(ctx echo.Context) error {
	courierID, requestID, err := offerDecision(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAcceptOfferCommand(courierID, requestID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.AcceptOffer.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondRequest(ctx, http.StatusOK, requestID)
}

// DeclineOffer handles POST /api/v1/couriers/:id/offer/decline. The request stays pending
// and is not offered to this courier again during the session.
func (s *Server) DeclineOffer(ctx echo.Context) error {
	courierID, requestID, err := offerDecision(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewDeclineOfferCommand(courierID, requestID)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.DeclineOffer.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondCourier(ctx, http.StatusOK, courierID)
}

func offerDecision(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	courierID, err := pathID(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	var body OfferDecision
	if err = ctx.Bind(&body); err != nil {
		return kernel.UUID{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	requestID, err := kernel.UUIDFromString(body.RequestID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return courierID, requestID, nil
}

func (s *Server) respondCourier(ctx echo.Context, code int, id kernel.UUID) error {
	couriers, err := s.handlers.GetAllCouriers.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	for _, c := range couriers {
		if c.ID.IsEqual(id) {
			return ctx.JSON(code, fromCourier(c))
		}
	}
	return s.fail(ctx, errs.NewObjectNotFoundError("courier", id.String()))
}
