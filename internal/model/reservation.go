package model

import "time"

// ReservationStatus enumerates the reservation state machine.  CANCELLED and
// COMPLETED are terminal: no transition ever leaves them.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// Terminal reports whether the status admits no further transitions.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCancelled || s == ReservationCompleted
}

// Reservation is a customer's booking of one or more seats on a single
// flight.  TotalPriceCents is fixed by the pricing calculator at creation
// time and is never recomputed, even if the flight's base price changes
// later.  SeatIDs lists the booked seats in booking order; every seat must
// belong to the reservation's flight.
type Reservation struct {
	ID              uint64            // reservations.id
	BookingRef      string            // reservations.booking_ref (uuid, unique)
	CustomerID      uint64            // reservations.customer_id
	FlightID        uint64            // reservations.flight_id
	Status          ReservationStatus // reservations.status
	TotalPriceCents uint32            // reservations.total_price_cents
	PaymentRef      *string           // reservations.payment_ref (nullable)
	BookedAt        time.Time         // reservations.booked_at
	UpdatedAt       time.Time         // reservations.updated_at
	SeatIDs         []uint64          // from tickets, ordered by ticket id
}
