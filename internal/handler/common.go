// Package handler contains the Echo HTTP handlers.  Handlers bind and
// validate request bodies, call into the booking core or repositories,
// and translate domain errors into JSON responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/middleware"
	"github.com/evently/venue-booking/internal/repository"
)

// actor returns the authenticated identity.  A missing identity yields
// a non-nil 401 *echo.HTTPError so the caller's error return stops the
// handler; writing the response directly here would return nil from
// c.JSON and let the handler keep executing with a zero identity.
func actor(c echo.Context) (booking.Identity, error) {
	id, ok := middleware.Actor(c)
	if !ok {
		return booking.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// writeDomainError maps booking and repository errors onto HTTP
// responses.  Validation problems are 400, missing resources 404,
// authorization 403, and slot or state collisions 409.  Anything
// unrecognized is a 500 with a generic message so internals never
// leak.
func writeDomainError(c echo.Context, err error) error {
	var ve *booking.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	}
	var se *booking.StateError
	if errors.As(err, &se) {
		return c.JSON(http.StatusConflict, echo.Map{"error": se.Error()})
	}
	switch {
	case errors.Is(err, booking.ErrSpaceNotFound),
		errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSpaceUnavailable),
		errors.Is(err, booking.ErrSelfBookingForbidden),
		errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrAmbiguousTimezone):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
