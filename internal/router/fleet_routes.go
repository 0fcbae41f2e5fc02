package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/handler"
	"github.com/skylane/airline-reservation/internal/middleware"
	"github.com/skylane/airline-reservation/internal/model"
)

// RegisterFleet registers the agent/admin surface: flight and aircraft
// management plus the reference-data catalog.  Permission bits decide who
// gets in; agents carry manage_flights and manage_reference_data, admins
// carry everything including the destructive deletes.
func RegisterFleet(e *echo.Echo, fleet *handler.FleetHandler, ref *handler.ReferenceHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.POST("/flights", fleet.CreateFlight, middleware.RequirePermission(model.PermManageFlights))
	g.DELETE("/flights/:id", fleet.DeleteFlight, middleware.RequirePermission(model.PermDeleteFlights))

	g.POST("/aircraft", fleet.CreateAircraft, middleware.RequirePermission(model.PermManageAircraft))
	g.GET("/aircraft", fleet.ListAircraft, middleware.RequirePermission(model.PermManageAircraft))
	g.GET("/aircraft/:id", fleet.GetAircraft, middleware.RequirePermission(model.PermManageAircraft))
	g.PUT("/aircraft/:id/status", fleet.UpdateAircraftStatus, middleware.RequirePermission(model.PermManageAircraft))
	g.DELETE("/aircraft/:id", fleet.DeleteAircraft, middleware.RequirePermission(model.PermDeleteAircraft))

	refPerm := middleware.RequirePermission(model.PermManageReferenceData)
	g.POST("/airlines", ref.CreateAirline, refPerm)
	g.GET("/airlines", ref.ListAirlines, refPerm)
	g.DELETE("/airlines/:id", ref.DeleteAirline, refPerm)
	g.POST("/airports", ref.CreateAirport, refPerm)
	g.GET("/airports", ref.ListAirports, refPerm)
	g.DELETE("/airports/:id", ref.DeleteAirport, refPerm)
	g.POST("/routes", ref.CreateRoute, refPerm)
	g.GET("/routes", ref.ListRoutes, refPerm)
	g.DELETE("/routes/:id", ref.DeleteRoute, refPerm)
}
