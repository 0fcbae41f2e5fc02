package model

import "time"

// AircraftStatus enumerates the operational state of an airframe.  Changing
// it cascades onto the aircraft's future flights (see service.Cascade).
type AircraftStatus string

const (
	AircraftActive      AircraftStatus = "ACTIVE"
	AircraftMaintenance AircraftStatus = "MAINTENANCE"
	AircraftInactive    AircraftStatus = "INACTIVE"
)

// Valid reports whether s is a known aircraft status.
func (s AircraftStatus) Valid() bool {
	switch s {
	case AircraftActive, AircraftMaintenance, AircraftInactive:
		return true
	}
	return false
}

// SeatLayout describes the cabin configuration of an aircraft.  Rows are
// numbered from 1 starting with first class, then business, then economy;
// letters run from "A" across the row.  The layout is the template from
// which Seat rows are generated when a flight is created.
type SeatLayout struct {
	FirstRows    uint32 // number of first-class rows
	BusinessRows uint32 // number of business rows
	EconomyRows  uint32 // number of economy rows
	SeatsPerRow  uint32 // seats in every row, 1..26
}

// TotalSeats returns the physical seat count the layout produces.
func (l SeatLayout) TotalSeats() uint32 {
	return (l.FirstRows + l.BusinessRows + l.EconomyRows) * l.SeatsPerRow
}

// Aircraft is an airframe in the fleet.  Its layout is fixed; its status
// drives the flight-status cascade.
type Aircraft struct {
	ID         uint64         // aircraft.id
	TailNumber string         // aircraft.tail_number (unique)
	Model      string         // aircraft.model, e.g. "A320neo"
	Status     AircraftStatus // aircraft.status
	Layout     SeatLayout     // aircraft.first_rows/business_rows/economy_rows/seats_per_row
	CreatedAt  time.Time      // aircraft.created_at
	UpdatedAt  time.Time      // aircraft.updated_at
}
