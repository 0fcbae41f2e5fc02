package model

import "time"

// Airline is a carrier operating routes.  Reference data: the only
// invariant is uniqueness of the IATA code.
type Airline struct {
	ID        uint64    // airlines.id
	Code      string    // airlines.code (IATA, unique, e.g. "LH")
	Name      string    // airlines.name
	CreatedAt time.Time // airlines.created_at
	UpdatedAt time.Time // airlines.updated_at
}

// Airport is reference data keyed by its IATA code.
type Airport struct {
	ID        uint64    // airports.id
	Code      string    // airports.code (IATA, unique, e.g. "FRA")
	Name      string    // airports.name
	City      string    // airports.city
	Country   string    // airports.country
	CreatedAt time.Time // airports.created_at
	UpdatedAt time.Time // airports.updated_at
}

// Route is an ordered origin/destination pair flown by an airline.  The
// (airline, origin, destination) triple is unique.
type Route struct {
	ID            uint64    // routes.id
	AirlineID     uint64    // routes.airline_id
	OriginID      uint64    // routes.origin_airport_id
	DestinationID uint64    // routes.destination_airport_id
	CreatedAt     time.Time // routes.created_at
	UpdatedAt     time.Time // routes.updated_at
}
