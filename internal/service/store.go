package service

import (
	"context"

	"github.com/skylane/airline-reservation/internal/model"
)

// Store is the persistence collaborator of the engine.  WithinTx runs fn
// inside one unit of work: if fn returns an error (or panics) every write
// made through the Tx is rolled back, otherwise all writes commit
// together.  The SQL implementation lives in internal/repository; tests
// supply an in-memory store with the same semantics.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the per-entity stores bound to one open unit of work.  A Tx
// is only valid for the duration of the WithinTx callback that produced
// it.
type Tx interface {
	Flights() FlightStore
	Seats() SeatStore
	Reservations() ReservationStore
	Tickets() TicketStore
	Aircraft() AircraftStore
}

// FlightStore accesses flight rows.  Lookups return an error satisfying
// errors.Is(err, ErrNotFound) when no row matches.
type FlightStore interface {
	ByID(ctx context.Context, id uint64) (*model.Flight, error)
	ByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error)
	Create(ctx context.Context, f *model.Flight) error
	UpdateStatus(ctx context.Context, id uint64, status model.FlightStatus) error
	Delete(ctx context.Context, id uint64) error

	// TakeSeats atomically decrements the flight's available-seat counter
	// by n, but only if at least n seats remain.  It reports whether the
	// decrement happened.  The check and the decrement are one step; two
	// concurrent callers can never both succeed past the physical limit.
	TakeSeats(ctx context.Context, id uint64, n uint32) (bool, error)

	// ReturnSeats atomically increments the counter by n, but only if the
	// result stays within the flight's physical seat total.  A false
	// return means the increment would have overshot and nothing changed.
	ReturnSeats(ctx context.Context, id uint64, n uint32) (bool, error)
}

// SeatStore accesses seat rows of a flight.
type SeatStore interface {
	// ByIDsForFlight returns the seats among ids that belong to the given
	// flight.  Callers compare the result length against len(ids) to
	// detect unknown or foreign seats.
	ByIDsForFlight(ctx context.Context, flightID uint64, ids []uint64) ([]model.Seat, error)

	// MarkUnavailable flips is_available to false for the given seats,
	// touching only rows that are currently available, and returns how
	// many rows flipped.
	MarkUnavailable(ctx context.Context, flightID uint64, ids []uint64) (int64, error)

	// MarkAvailable flips is_available to true for the given seats,
	// touching only rows that are currently unavailable, and returns how
	// many rows flipped.  Already-available seats are skipped, which is
	// what makes release idempotent.
	MarkAvailable(ctx context.Context, flightID uint64, ids []uint64) (int64, error)

	CreateBulk(ctx context.Context, seats []model.Seat) error
	DeleteByFlight(ctx context.Context, flightID uint64) (int64, error)
}

// ReservationStore accesses reservation rows.  ByID populates SeatIDs from
// the reservation's tickets.
type ReservationStore interface {
	ByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Create(ctx context.Context, r *model.Reservation) error
	UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	AttachPayment(ctx context.Context, id uint64, paymentRef string) error
	UpdateTotal(ctx context.Context, id uint64, totalCents uint32) error
	IDsByFlight(ctx context.Context, flightID uint64) ([]uint64, error)
	DeleteByFlight(ctx context.Context, flightID uint64) (int64, error)
}

// TicketStore accesses ticket rows, the leaves of the dependency graph.
type TicketStore interface {
	CreateBulk(ctx context.Context, tickets []model.Ticket) error
	DeleteByReservation(ctx context.Context, reservationID uint64) (int64, error)
	DeleteByFlight(ctx context.Context, flightID uint64) (int64, error)
}

// AircraftStore accesses aircraft rows.
type AircraftStore interface {
	ByID(ctx context.Context, id uint64) (*model.Aircraft, error)
	UpdateStatus(ctx context.Context, id uint64, status model.AircraftStatus) error
	Delete(ctx context.Context, id uint64) error
}

// Events receives domain notifications after a unit of work has committed.
// Implementations must not block the request path on broker failures; the
// RabbitMQ implementation lives in internal/queue.  A nil Events is valid
// and means "publish nothing".
type Events interface {
	ReservationConfirmed(ctx context.Context, r *model.Reservation)
	FlightStatusChanged(ctx context.Context, flightID uint64, from, to model.FlightStatus)
}
