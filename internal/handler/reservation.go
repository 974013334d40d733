package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/repository"
)

// ReservationHandler serves the user side of the reservation
// lifecycle.  The POST endpoint is action-tagged: the body carries an
// "action" discriminator ("create" or "list") and the remaining fields
// depend on it, matching the client SDK's single-envelope calling
// convention.
type ReservationHandler struct {
	Lifecycle    *booking.Lifecycle
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(lc *booking.Lifecycle, reservations *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Lifecycle: lc, Reservations: reservations}
}

type reservationActionReq struct {
	Action            string `json:"action"`
	SpaceID           uint64 `json:"space_id"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	EstimatedCapacity uint32 `json:"estimated_capacity"`
}

// Dispatch routes the action-tagged POST body.
func (h *ReservationHandler) Dispatch(c echo.Context) error {
	var req reservationActionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "create":
		return h.create(c, req)
	case "list":
		return h.List(c)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
	}
}

func (h *ReservationHandler) create(c echo.Context, req reservationActionReq) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	out, err := h.Lifecycle.Create(c.Request().Context(), id, booking.CreateRequest{
		SpaceID:           req.SpaceID,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		EstimatedCapacity: req.EstimatedCapacity,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation": reservationPart(out.Reservation),
		"payment":     paymentPart(out.Payment),
		"space":       echo.Map{"id": out.Space.ID, "name": out.Space.Name},
		"cost":        out.Cost,
		"notifications": echo.Map{
			"owner_notified": out.OwnerNotified,
			"user_notified":  out.UserNotified,
		},
	})
}

// List returns the authenticated user's reservations with space names
// and payments.
func (h *ReservationHandler) List(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), id.UserID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": detailParts(items)})
}
