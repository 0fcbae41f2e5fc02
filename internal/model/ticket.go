package model

import "time"

// Ticket links one reservation to one seat.  A ticket exists exactly as
// long as its reservation does; cascading deletes remove tickets first
// because they are the leaves of the dependency graph.
type Ticket struct {
	ID            uint64    // tickets.id
	ReservationID uint64    // tickets.reservation_id
	FlightID      uint64    // tickets.flight_id
	SeatID        uint64    // tickets.seat_id
	PriceCents    uint32    // tickets.price_cents (this seat's share of the total)
	CreatedAt     time.Time // tickets.created_at
}
