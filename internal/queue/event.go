// Package queue defines the message payloads exchanged over RabbitMQ and
// the background consumer that turns them into the booking log.
package queue

// ReservationConfirmedEvent is published whenever a reservation reaches
// CONFIRMED, either at booking time (paid upfront) or on a later confirm.
// It carries enough for downstream consumers, such as the promotional
// notice job, to act without touching the primary database.
type ReservationConfirmedEvent struct {
	ReservationID   uint64   `json:"reservation_id"`
	BookingRef      string   `json:"booking_ref"`
	CustomerID      uint64   `json:"customer_id"`
	FlightID        uint64   `json:"flight_id"`
	SeatIDs         []uint64 `json:"seat_ids"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	ConfirmedAt     string   `json:"confirmed_at"`
}

// FlightStatusChangedEvent is published for every flight re-statused by an
// aircraft cascade, after the whole cascade has committed.
type FlightStatusChangedEvent struct {
	FlightID  uint64 `json:"flight_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedAt string `json:"changed_at"`
}

// Queue names, shared between publisher and consumers.
const (
	ReservationConfirmedQueue = "reservation.confirmed"
	FlightStatusQueue         = "flight.status-changed"
)
