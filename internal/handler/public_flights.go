package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/model"
	"github.com/skylane/airline-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: flight search
// and seat maps.  These routes sit behind the redis response cache.
type PublicHandler struct {
	Flights *repository.FlightRepo
	Seats   *repository.SeatRepo
}

func NewPublicHandler(flights *repository.FlightRepo, seats *repository.SeatRepo) *PublicHandler {
	if flights == nil || seats == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Flights: flights, Seats: seats}
}

type flightView struct {
	ID             uint64 `json:"id"`
	FlightNumber   string `json:"flight_number"`
	AircraftID     uint64 `json:"aircraft_id"`
	RouteID        uint64 `json:"route_id"`
	DepartsAt      string `json:"departs_at"`
	ArrivesAt      string `json:"arrives_at"`
	Status         string `json:"status"`
	SeatTotal      uint32 `json:"seat_total"`
	AvailableSeats uint32 `json:"available_seats"`
	BasePriceCents uint32 `json:"base_price_cents"`
}

func toFlightView(f *model.Flight) flightView {
	return flightView{
		ID:             f.ID,
		FlightNumber:   f.FlightNumber,
		AircraftID:     f.AircraftID,
		RouteID:        f.RouteID,
		DepartsAt:      f.DepartsAt.UTC().Format(time.RFC3339),
		ArrivesAt:      f.ArrivesAt.UTC().Format(time.RFC3339),
		Status:         string(f.Status),
		SeatTotal:      f.SeatTotal,
		AvailableSeats: f.AvailableSeats,
		BasePriceCents: f.BasePriceCents,
	}
}

type seatView struct {
	ID          uint64 `json:"id"`
	FlightID    uint64 `json:"flight_id"`
	SeatNumber  string `json:"seat_number"`
	Class       string `json:"class"`
	IsAvailable bool   `json:"is_available"`
}

// SearchFlights handles GET /v1/flights?origin=&destination=&date=.
// Origin and destination are IATA airport codes; date is YYYY-MM-DD and
// optional.  All filters are optional and combine.
func (h *PublicHandler) SearchFlights(c echo.Context) error {
	var day *time.Time
	if ds := c.QueryParam("date"); ds != "" {
		d, err := time.Parse("2006-01-02", ds)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = &d
	}
	flights, err := h.Flights.Search(c.Request().Context(), c.QueryParam("origin"), c.QueryParam("destination"), day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	items := make([]flightView, 0, len(flights))
	for i := range flights {
		items = append(items, toFlightView(&flights[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetFlight handles GET /v1/flights/:id.
func (h *PublicHandler) GetFlight(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f, err := h.Flights.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return notFoundJSON(c, "flight")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toFlightView(f)})
}

// ListFlightSeats handles GET /v1/flights/:id/seats.  With
// ?available=true only open seats come back.
func (h *PublicHandler) ListFlightSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.Flights.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return notFoundJSON(c, "flight")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	var seats []model.Seat
	if c.QueryParam("available") == "true" {
		seats, err = h.Seats.GetAvailableByFlight(ctx, id)
	} else {
		seats, err = h.Seats.GetByFlight(ctx, id)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]seatView, 0, len(seats))
	for _, s := range seats {
		items = append(items, seatView{
			ID:          s.ID,
			FlightID:    s.FlightID,
			SeatNumber:  s.SeatNumber,
			Class:       string(s.Class),
			IsAvailable: s.IsAvailable,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
