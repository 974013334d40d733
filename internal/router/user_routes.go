package router

import (
	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/handler"
	"github.com/evently/venue-booking/internal/middleware"
	"github.com/evently/venue-booking/internal/model"
	"github.com/evently/venue-booking/internal/repository"
)

// RegisterUser registers endpoints available to every authenticated
// account.  Owners and superadmins book spaces like regular users, so
// all three roles are allowed here; the self-booking rule is enforced
// in the booking core, not by routing.
func RegisterUser(e *echo.Echo, reservations *handler.ReservationHandler, spaces *handler.PublicSpaceHandler, account *handler.AccountHandler, jwtSecret string, roles repository.RoleResolver) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.ResolveIdentity(roles),
		middleware.RequireRole(model.RoleUser, model.RoleOwner, model.RoleSuperadmin),
	)

	// Action-tagged envelope: {"action":"create"|"list", ...}.
	g.POST("/reservations", reservations.Dispatch)
	g.GET("/reservations", reservations.List)

	g.POST("/spaces/:id/reviews", spaces.AddReview)

	g.GET("/me", account.Me)
	g.GET("/account", account.Me)
	g.DELETE("/account", account.Delete)
}
