package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/model"
	"github.com/skylane/airline-reservation/internal/repository"
	"github.com/skylane/airline-reservation/internal/service"
)

// FleetHandler covers the agent/admin surface: aircraft catalog, aircraft
// status changes with their flight cascade, flight creation and the
// cascading deletes.
type FleetHandler struct {
	Aircraft *repository.AircraftRepo
	Flights  *service.Flights
	Cascade  *service.Cascade
	Deletion *service.Deletion
}

func NewFleetHandler(aircraft *repository.AircraftRepo, flights *service.Flights, cascade *service.Cascade, deletion *service.Deletion) *FleetHandler {
	if aircraft == nil || flights == nil || cascade == nil || deletion == nil {
		panic("nil dependency passed to NewFleetHandler")
	}
	return &FleetHandler{Aircraft: aircraft, Flights: flights, Cascade: cascade, Deletion: deletion}
}

type aircraftReq struct {
	TailNumber   string `json:"tail_number"`
	Model        string `json:"model"`
	FirstRows    uint32 `json:"first_rows"`
	BusinessRows uint32 `json:"business_rows"`
	EconomyRows  uint32 `json:"economy_rows"`
	SeatsPerRow  uint32 `json:"seats_per_row"`
}

type aircraftView struct {
	ID           uint64 `json:"id"`
	TailNumber   string `json:"tail_number"`
	Model        string `json:"model"`
	Status       string `json:"status"`
	FirstRows    uint32 `json:"first_rows"`
	BusinessRows uint32 `json:"business_rows"`
	EconomyRows  uint32 `json:"economy_rows"`
	SeatsPerRow  uint32 `json:"seats_per_row"`
	SeatTotal    uint32 `json:"seat_total"`
}

func toAircraftView(a *model.Aircraft) aircraftView {
	return aircraftView{
		ID:           a.ID,
		TailNumber:   a.TailNumber,
		Model:        a.Model,
		Status:       string(a.Status),
		FirstRows:    a.Layout.FirstRows,
		BusinessRows: a.Layout.BusinessRows,
		EconomyRows:  a.Layout.EconomyRows,
		SeatsPerRow:  a.Layout.SeatsPerRow,
		SeatTotal:    a.Layout.TotalSeats(),
	}
}

// CreateAircraft handles POST /v1/aircraft.
func (h *FleetHandler) CreateAircraft(c echo.Context) error {
	var req aircraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TailNumber == "" || req.Model == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tail_number and model are required"})
	}
	a := &model.Aircraft{
		TailNumber: req.TailNumber,
		Model:      req.Model,
		Status:     model.AircraftActive,
		Layout: model.SeatLayout{
			FirstRows:    req.FirstRows,
			BusinessRows: req.BusinessRows,
			EconomyRows:  req.EconomyRows,
			SeatsPerRow:  req.SeatsPerRow,
		},
	}
	if a.Layout.TotalSeats() == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat layout must contain at least one seat"})
	}
	if err := h.Aircraft.Create(c.Request().Context(), a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tail number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create aircraft failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toAircraftView(a)})
}

// ListAircraft handles GET /v1/aircraft.
func (h *FleetHandler) ListAircraft(c echo.Context) error {
	all, err := h.Aircraft.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]aircraftView, 0, len(all))
	for i := range all {
		items = append(items, toAircraftView(&all[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetAircraft handles GET /v1/aircraft/:id.
func (h *FleetHandler) GetAircraft(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	a, err := h.Aircraft.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return notFoundJSON(c, "aircraft")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toAircraftView(a)})
}

// UpdateAircraftStatus handles PUT /v1/aircraft/:id/status.  The status
// change cascades onto every future flight of the aircraft in one
// transaction; past flights keep their status.
func (h *FleetHandler) UpdateAircraftStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Cascade.UpdateAircraftStatus(c.Request().Context(), id, model.AircraftStatus(req.Status)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": req.Status})
}

// DeleteAircraft handles DELETE /v1/aircraft/:id.  Every flight of the
// aircraft is torn down leaf to root before the aircraft row goes; a
// failure anywhere leaves everything in place.
func (h *FleetHandler) DeleteAircraft(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Deletion.DeleteAircraft(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type createFlightReq struct {
	FlightNumber   string `json:"flight_number"`
	AircraftID     uint64 `json:"aircraft_id"`
	RouteID        uint64 `json:"route_id"`
	DepartsAt      string `json:"departs_at"` // RFC3339
	ArrivesAt      string `json:"arrives_at"` // RFC3339
	BasePriceCents uint32 `json:"base_price_cents"`
}

// CreateFlight handles POST /v1/flights.  Seats are generated from the
// aircraft layout in the same transaction as the flight row.
func (h *FleetHandler) CreateFlight(c echo.Context) error {
	var req createFlightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	departs, err := time.Parse(time.RFC3339, req.DepartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departs_at must be RFC3339"})
	}
	arrives, err := time.Parse(time.RFC3339, req.ArrivesAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrives_at must be RFC3339"})
	}
	f, err := h.Flights.Create(c.Request().Context(), service.CreateFlightInput{
		FlightNumber:   req.FlightNumber,
		AircraftID:     req.AircraftID,
		RouteID:        req.RouteID,
		DepartsAt:      departs,
		ArrivesAt:      arrives,
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toFlightView(f)})
}

// DeleteFlight handles DELETE /v1/flights/:id.
func (h *FleetHandler) DeleteFlight(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Deletion.DeleteFlight(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
