package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/booking"
	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/repository"
)

// OwnerReservationHandler serves the owner's decision endpoint.  Like
// the user endpoint it is action-tagged: "accept", "reject" and "list"
// share one POST route.
type OwnerReservationHandler struct {
	Lifecycle    *booking.Lifecycle
	Reservations *repository.ReservationRepo
}

func NewOwnerReservationHandler(lc *booking.Lifecycle, reservations *repository.ReservationRepo) *OwnerReservationHandler {
	return &OwnerReservationHandler{Lifecycle: lc, Reservations: reservations}
}

type ownerReservationActionReq struct {
	Action        string `json:"action"`
	ReservationID uint64 `json:"reservation_id"`
	Reason        string `json:"reason"`
	Status        string `json:"status"` // optional list filter
}

// Dispatch routes the action-tagged POST body.
func (h *OwnerReservationHandler) Dispatch(c echo.Context) error {
	var req ownerReservationActionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "accept":
		return h.decide(c, req, true)
	case "reject":
		return h.decide(c, req, false)
	case "list":
		return h.list(c, req)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
	}
}

func (h *OwnerReservationHandler) decide(c echo.Context, req ownerReservationActionReq, accept bool) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var out *booking.DecisionResult
	if accept {
		out, err = h.Lifecycle.Accept(c.Request().Context(), id, req.ReservationID)
	} else {
		out, err = h.Lifecycle.Reject(c.Request().Context(), id, req.ReservationID, req.Reason)
	}
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation": reservationPart(out.Reservation),
		"payment":     paymentPart(out.Payment),
		"space":       echo.Map{"id": out.Space.ID, "name": out.Space.Name},
		"notifications": echo.Map{
			"user_notified": out.UserNotified,
		},
	})
}

func (h *OwnerReservationHandler) list(c echo.Context, req ownerReservationActionReq) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case "", model.ReservationStatusPending, model.ReservationStatusConfirmed, model.ReservationStatusRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	items, err := h.Reservations.ListForOwner(c.Request().Context(), id.UserID, status)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": detailParts(items)})
}
