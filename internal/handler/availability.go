package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/booking"
)

// AvailabilityHandler serves the monthly availability grid of a space.
type AvailabilityHandler struct {
	Reporter *booking.Reporter
}

func NewAvailabilityHandler(rep *booking.Reporter) *AvailabilityHandler {
	return &AvailabilityHandler{Reporter: rep}
}

// Month handles GET /v1/spaces/:id/availability?year=YYYY&month=M.
func (h *AvailabilityHandler) Month(c echo.Context) error {
	spaceID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must be an integer"})
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be an integer"})
	}

	report, err := h.Reporter.MonthAvailability(c.Request().Context(), spaceID, year, month)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
