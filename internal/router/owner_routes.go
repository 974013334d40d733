package router

import (
	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/handler"
	"github.com/evently/venue-booking/internal/middleware"
	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/repository"
)

// RegisterOwner registers owner-scoped endpoints under /v1/owner.
// Superadmins pass the same gate so they can decide reservations on
// any space.
func RegisterOwner(e *echo.Echo, reservations *handler.OwnerReservationHandler, spaces *handler.OwnerSpaceHandler, jwtSecret string, roles repository.RoleResolver) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.ResolveIdentity(roles),
		middleware.RequireRole(model.RoleOwner, model.RoleSuperadmin),
	)

	// Action-tagged envelope: {"action":"accept"|"reject"|"list", ...}.
	g.POST("/reservations", reservations.Dispatch)

	g.POST("/spaces", spaces.Create)
	g.GET("/spaces", spaces.List)
	g.PUT("/spaces/:id", spaces.Update)
	g.PATCH("/spaces/:id", spaces.Update)
	g.DELETE("/spaces/:id", spaces.Delete)
}
