package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/model"
	"github.com/skylane/airline-reservation/internal/repository"
)

// ReferenceHandler owns the reference-data catalog: airlines, airports
// and routes.  The only invariant here is uniqueness, enforced by the
// database and surfaced as 409.
type ReferenceHandler struct {
	Airlines *repository.AirlineRepo
	Airports *repository.AirportRepo
	Routes   *repository.RouteRepo
}

func NewReferenceHandler(airlines *repository.AirlineRepo, airports *repository.AirportRepo, routes *repository.RouteRepo) *ReferenceHandler {
	if airlines == nil || airports == nil || routes == nil {
		panic("nil repository passed to NewReferenceHandler")
	}
	return &ReferenceHandler{Airlines: airlines, Airports: airports, Routes: routes}
}

// ----- airlines -----

type airlineView struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateAirline handles POST /v1/airlines.
func (h *ReferenceHandler) CreateAirline(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name are required"})
	}
	a := &model.Airline{Code: req.Code, Name: strings.TrimSpace(req.Name)}
	if err := h.Airlines.Create(c.Request().Context(), a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airline code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airline failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": airlineView{ID: a.ID, Code: a.Code, Name: a.Name}})
}

// ListAirlines handles GET /v1/airlines.
func (h *ReferenceHandler) ListAirlines(c echo.Context) error {
	all, err := h.Airlines.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]airlineView, 0, len(all))
	for _, a := range all {
		items = append(items, airlineView{ID: a.ID, Code: a.Code, Name: a.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteAirline handles DELETE /v1/airlines/:id.
func (h *ReferenceHandler) DeleteAirline(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Airlines.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAirlineNotFound) {
			return notFoundJSON(c, "airline")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- airports -----

type airportView struct {
	ID      uint64 `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// CreateAirport handles POST /v1/airports.
func (h *ReferenceHandler) CreateAirport(c echo.Context) error {
	var req struct {
		Code    string `json:"code"`
		Name    string `json:"name"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if len(req.Code) != 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code must be a 3-letter IATA code"})
	}
	a := &model.Airport{Code: req.Code, Name: req.Name, City: req.City, Country: req.Country}
	if err := h.Airports.Create(c.Request().Context(), a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airport failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": airportView{ID: a.ID, Code: a.Code, Name: a.Name, City: a.City, Country: a.Country}})
}

// ListAirports handles GET /v1/airports.
func (h *ReferenceHandler) ListAirports(c echo.Context) error {
	all, err := h.Airports.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]airportView, 0, len(all))
	for _, a := range all {
		items = append(items, airportView{ID: a.ID, Code: a.Code, Name: a.Name, City: a.City, Country: a.Country})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteAirport handles DELETE /v1/airports/:id.
func (h *ReferenceHandler) DeleteAirport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Airports.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return notFoundJSON(c, "airport")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- routes -----

type routeView struct {
	ID            uint64 `json:"id"`
	AirlineID     uint64 `json:"airline_id"`
	OriginID      uint64 `json:"origin_airport_id"`
	DestinationID uint64 `json:"destination_airport_id"`
}

// CreateRoute handles POST /v1/routes.
func (h *ReferenceHandler) CreateRoute(c echo.Context) error {
	var req struct {
		AirlineID     uint64 `json:"airline_id"`
		OriginID      uint64 `json:"origin_airport_id"`
		DestinationID uint64 `json:"destination_airport_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AirlineID == 0 || req.OriginID == 0 || req.DestinationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airline_id, origin_airport_id and destination_airport_id are required"})
	}
	if req.OriginID == req.DestinationID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
	}
	rt := &model.Route{AirlineID: req.AirlineID, OriginID: req.OriginID, DestinationID: req.DestinationID}
	if err := h.Routes.Create(c.Request().Context(), rt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create route failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": routeView{ID: rt.ID, AirlineID: rt.AirlineID, OriginID: rt.OriginID, DestinationID: rt.DestinationID}})
}

// ListRoutes handles GET /v1/routes.
func (h *ReferenceHandler) ListRoutes(c echo.Context) error {
	all, err := h.Routes.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	items := make([]routeView, 0, len(all))
	for _, rt := range all {
		items = append(items, routeView{ID: rt.ID, AirlineID: rt.AirlineID, OriginID: rt.OriginID, DestinationID: rt.DestinationID})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteRoute handles DELETE /v1/routes/:id.
func (h *ReferenceHandler) DeleteRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return notFoundJSON(c, "route")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
