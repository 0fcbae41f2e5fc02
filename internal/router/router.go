// Package router wires HTTP routes to handlers and attaches the auth,
// permission, cache and rate-limit middleware in one place.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/handler"
	"github.com/skylane/airline-reservation/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints.  Register and login live
// under /v1/auth without a token; /v1/me echoes the current claims.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the guest browse surface.  The extra
// middleware (usually the redis response cache) applies to every route in
// the group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/flights", p.SearchFlights)
	g.GET("/flights/:id", p.GetFlight)
	g.GET("/flights/:id/seats", p.ListFlightSeats)
}
