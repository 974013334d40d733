package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/repository"
)

// AccountHandler serves account self-management.
type AccountHandler struct {
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
}

func NewAccountHandler(users *repository.UserRepo, reservations *repository.ReservationRepo) *AccountHandler {
	return &AccountHandler{Users: users, Reservations: reservations}
}

// Delete handles DELETE /v1/account: soft-deletes the authenticated
// account with the full cascade (sessions revoked, pending
// reservations rejected, owned spaces hidden).  The row itself is
// kept so historical reservations stay resolvable.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.Users.Deactivate(c.Request().Context(), h.Reservations, id.UserID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}

// Me handles GET /v1/account: the authenticated user's profile.
func (h *AccountHandler) Me(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	u, err := h.Users.GetByID(c.Request().Context(), id.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userPart{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      id.Role,
	}})
}
