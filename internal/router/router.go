// Package router wires handlers and middleware onto the Echo instance.
// Routes are grouped by audience: public catalog, auth, authenticated
// users and owners.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/evently/venue-booking/internal/handler"
	"github.com/evently/venue-booking/internal/middleware"
	"github.com/evently/venue-booking/internal/repository"
)

// RegisterPublic registers unauthenticated endpoints: the health
// check, the space catalog and the availability grid.
func RegisterPublic(e *echo.Echo, spaces *handler.PublicSpaceHandler, availability *handler.AvailabilityHandler) {
	e.GET("/healthz", handler.Health)

	e.GET("/v1/spaces", spaces.Search)
	e.GET("/v1/spaces/:id", spaces.Detail)
	e.GET("/v1/spaces/:id/availability", availability.Month)
}

// RegisterAuth registers the token endpoints.  Register, login and
// refresh need no session; logout accepts either a refresh token in
// the body or a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, roles repository.RoleResolver) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)

	auth := e.Group("/v1/auth",
		middleware.JWTAuth(jwtSecret),
		middleware.ResolveIdentity(roles),
	)
	auth.POST("/logout", a.Logout)
}
