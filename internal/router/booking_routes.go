package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/handler"
	"github.com/skylane/airline-reservation/internal/middleware"
	"github.com/skylane/airline-reservation/internal/model"
)

// RegisterBooking registers the reservation lifecycle endpoints.  All
// routes require a valid JWT; the write endpoints additionally require
// the booking permissions and pass through the rate limiter when one is
// supplied.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limit ...echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	book := append([]echo.MiddlewareFunc{middleware.RequirePermission(model.PermBookSeats)}, limit...)
	manage := append([]echo.MiddlewareFunc{middleware.RequirePermission(model.PermManageOwnReservations)}, limit...)

	g.POST("/reservations", h.Book, book...)
	g.POST("/reservations/:id/confirm", h.Confirm, manage...)
	g.POST("/reservations/:id/cancel", h.Cancel, manage...)
	g.PUT("/reservations/:id/seats", h.ModifySeats, manage...)
	g.GET("/my-reservations", h.ListMine, middleware.RequirePermission(model.PermManageOwnReservations))

	// Completing a reservation is an operational action, not a customer one.
	g.POST("/reservations/:id/complete", h.Complete, middleware.RequirePermission(model.PermManageFlights))
}
