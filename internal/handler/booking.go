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

// BookingHandler exposes the reservation lifecycle to customers.  All
// routes assume JWT authentication has run; ownership of a reservation is
// enforced here, before any state transition is attempted.
type BookingHandler struct {
	Booking      *service.Booking
	Reservations *repository.ReservationRepo
}

func NewBookingHandler(booking *service.Booking, reservations *repository.ReservationRepo) *BookingHandler {
	if booking == nil || reservations == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Booking: booking, Reservations: reservations}
}

type bookReq struct {
	FlightID   uint64   `json:"flight_id"`
	SeatIDs    []uint64 `json:"seat_ids"`
	PaymentRef *string  `json:"payment_ref"`
}

type modifyReq struct {
	SeatIDs []uint64 `json:"seat_ids"`
}

type confirmReq struct {
	PaymentRef string `json:"payment_ref"`
}

type reservationView struct {
	ID              uint64   `json:"id"`
	BookingRef      string   `json:"booking_ref"`
	FlightID        uint64   `json:"flight_id"`
	Status          string   `json:"status"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	PaymentRef      *string  `json:"payment_ref,omitempty"`
	SeatIDs         []uint64 `json:"seat_ids"`
	BookedAt        string   `json:"booked_at"`
}

func toReservationView(r *model.Reservation) reservationView {
	return reservationView{
		ID:              r.ID,
		BookingRef:      r.BookingRef,
		FlightID:        r.FlightID,
		Status:          string(r.Status),
		TotalPriceCents: r.TotalPriceCents,
		PaymentRef:      r.PaymentRef,
		SeatIDs:         r.SeatIDs,
		BookedAt:        r.BookedAt.UTC().Format(time.RFC3339),
	}
}

// Book handles POST /v1/reservations.  The reservation is created for the
// authenticated customer; with a payment_ref it starts CONFIRMED,
// otherwise PENDING.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FlightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_id is required"})
	}
	res, err := h.Booking.Book(c.Request().Context(), userID, req.FlightID, req.SeatIDs, req.PaymentRef)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toReservationView(res)})
}

// Confirm handles POST /v1/reservations/:id/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, ok := h.ownedReservation(c)
	if !ok {
		return nil
	}
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Booking.Confirm(c.Request().Context(), id, req.PaymentRef); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": string(model.ReservationConfirmed)})
}

// Cancel handles POST /v1/reservations/:id/cancel.  Cancelling an
// already-cancelled reservation succeeds without changing anything.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := h.ownedReservation(c)
	if !ok {
		return nil
	}
	if err := h.Booking.Cancel(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": string(model.ReservationCancelled)})
}

// ModifySeats handles PUT /v1/reservations/:id/seats: an atomic seat
// swap.  If the new seats cannot be claimed the original booking stands.
func (h *BookingHandler) ModifySeats(c echo.Context) error {
	id, ok := h.ownedReservation(c)
	if !ok {
		return nil
	}
	var req modifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res, err := h.Booking.Modify(c.Request().Context(), id, req.SeatIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(res)})
}

// Complete handles POST /v1/reservations/:id/complete.  Agent/admin only;
// marks a flown CONFIRMED reservation COMPLETED.
func (h *BookingHandler) Complete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Booking.Complete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": string(model.ReservationCompleted)})
}

// ListMine handles GET /v1/my-reservations.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Reservations.ListByCustomer(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// ownedReservation parses the :id parameter and verifies the reservation
// belongs to the caller.  Admins pass the ownership check for any
// reservation.  When ok is false the HTTP response has already been
// written and the handler must return nil.
func (h *BookingHandler) ownedReservation(c echo.Context) (id uint64, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return 0, false
	}
	id, err = pathID(c, "id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		return 0, false
	}
	r, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			_ = notFoundJSON(c, "reservation")
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return 0, false
	}
	if r.CustomerID != userID && !model.RolePermissions(getRole(c)).HasAll() {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return 0, false
	}
	return id, true
}
