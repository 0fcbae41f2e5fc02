package model

import "time"

// FlightStatus enumerates the lifecycle states of a scheduled flight.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightDelayed   FlightStatus = "DELAYED"
	FlightCancelled FlightStatus = "CANCELLED"
	FlightCompleted FlightStatus = "COMPLETED"
)

// Valid reports whether s is one of the known flight statuses.
func (s FlightStatus) Valid() bool {
	switch s {
	case FlightScheduled, FlightDelayed, FlightCancelled, FlightCompleted:
		return true
	}
	return false
}

// Flight represents a single scheduled departure on a route, operated by a
// specific aircraft.  Seats for the flight are generated once, when the
// flight is created, from the aircraft's seat layout.  AvailableSeats is a
// denormalised counter that must always equal the number of seats for the
// flight whose IsAvailable flag is true.
//
// Fields map 1:1 onto the `flights` table.
type Flight struct {
	ID             uint64       // flights.id
	FlightNumber   string       // flights.flight_number (unique)
	AircraftID     uint64       // flights.aircraft_id
	RouteID        uint64       // flights.route_id
	DepartsAt      time.Time    // flights.departs_at (UTC)
	ArrivesAt      time.Time    // flights.arrives_at (UTC)
	Status         FlightStatus // flights.status
	SeatTotal      uint32       // flights.seat_total (physical seats, fixed at creation)
	AvailableSeats uint32       // flights.available_seats
	BasePriceCents uint32       // flights.base_price_cents (economy fare)
	CreatedAt      time.Time    // flights.created_at
	UpdatedAt      time.Time    // flights.updated_at
}
