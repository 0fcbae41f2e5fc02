package model

import "time"

// SeatClass is the cabin class of a seat.  The class determines the fare
// multiplier applied on top of the flight's base price.
type SeatClass string

const (
	ClassEconomy  SeatClass = "ECONOMY"
	ClassBusiness SeatClass = "BUSINESS"
	ClassFirst    SeatClass = "FIRST"
)

// Valid reports whether c is a known seat class.
func (c SeatClass) Valid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirst:
		return true
	}
	return false
}

// Seat is one physical seat on one flight.  FlightID is always set when the
// seat row is generated at flight creation; seats never move between
// flights and are destroyed only together with their flight.
//
// IsAvailable must be false exactly when the seat belongs to an active
// (PENDING or CONFIRMED) reservation.
type Seat struct {
	ID          uint64    // seats.id
	FlightID    uint64    // seats.flight_id
	SeatNumber  string    // seats.seat_number, e.g. "12C"
	Class       SeatClass // seats.class
	IsAvailable bool      // seats.is_available
	CreatedAt   time.Time // seats.created_at
	UpdatedAt   time.Time // seats.updated_at
}
