package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/skylane/airline-reservation/internal/model"
)

// FlightRepo provides persistence for flights.  The available_seats
// counter is only ever moved through the conditional TakeSeatsTx /
// ReturnSeatsTx updates so that the check and the adjustment are a single
// atomic statement.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *FlightRepo) DB() *sql.DB { return r.db }

const flightColumns = `id, flight_number, aircraft_id, route_id, departs_at, arrives_at,
       status, seat_total, available_seats, base_price_cents, created_at, updated_at`

func scanFlight(row interface{ Scan(...any) error }) (*model.Flight, error) {
	var f model.Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.AircraftID, &f.RouteID, &f.DepartsAt, &f.ArrivesAt,
		&f.Status, &f.SeatTotal, &f.AvailableSeats, &f.BasePriceCents, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateTx inserts a new flight within the given transaction and populates
// the generated ID.  A reused flight number surfaces as ErrDuplicate.
func (r *FlightRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *model.Flight) error {
	const q = `INSERT INTO flights
	           (flight_number, aircraft_id, route_id, departs_at, arrives_at, status,
	            seat_total, available_seats, base_price_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		f.FlightNumber, f.AircraftID, f.RouteID, f.DepartsAt, f.ArrivesAt, f.Status,
		f.SeatTotal, f.AvailableSeats, f.BasePriceCents,
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a flight outside a transaction.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	const q = `SELECT ` + flightColumns + ` FROM flights WHERE id = ?`
	f, err := scanFlight(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlightNotFound
	}
	return f, err
}

// GetByIDTx fetches a flight within a transaction.
func (r *FlightRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Flight, error) {
	const q = `SELECT ` + flightColumns + ` FROM flights WHERE id = ?`
	f, err := scanFlight(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlightNotFound
	}
	return f, err
}

// GetByFlightNumber fetches a flight by its unique public number.
func (r *FlightRepo) GetByFlightNumber(ctx context.Context, number string) (*model.Flight, error) {
	const q = `SELECT ` + flightColumns + ` FROM flights WHERE flight_number = ?`
	f, err := scanFlight(r.db.QueryRowContext(ctx, q, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlightNotFound
	}
	return f, err
}

// GetByAircraftTx returns all flights operated by an aircraft, ordered by
// departure.  Used by the status cascade and the aircraft deletion walk.
func (r *FlightRepo) GetByAircraftTx(ctx context.Context, tx *sql.Tx, aircraftID uint64) ([]model.Flight, error) {
	const q = `SELECT ` + flightColumns + ` FROM flights WHERE aircraft_id = ? ORDER BY departs_at`
	rows, err := tx.QueryContext(ctx, q, aircraftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// Search returns flights matching the optional origin/destination airport
// codes and departure date (UTC day).  Empty filters match everything;
// results are ordered by departure time.
func (r *FlightRepo) Search(ctx context.Context, originCode, destinationCode string, day *time.Time) ([]model.Flight, error) {
	q := `SELECT f.id, f.flight_number, f.aircraft_id, f.route_id, f.departs_at, f.arrives_at,
	             f.status, f.seat_total, f.available_seats, f.base_price_cents, f.created_at, f.updated_at
	      FROM flights f
	      JOIN routes rt ON rt.id = f.route_id
	      JOIN airports o ON o.id = rt.origin_airport_id
	      JOIN airports d ON d.id = rt.destination_airport_id`
	var conds []string
	var args []any
	if originCode != "" {
		conds = append(conds, "o.code = ?")
		args = append(args, originCode)
	}
	if destinationCode != "" {
		conds = append(conds, "d.code = ?")
		args = append(args, destinationCode)
	}
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		conds = append(conds, "f.departs_at >= ? AND f.departs_at < ?")
		args = append(args, start, start.Add(24*time.Hour))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY f.departs_at"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// UpdateStatusTx sets the flight's status within a transaction.
func (r *FlightRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.FlightStatus) error {
	const q = `UPDATE flights SET status = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// TakeSeatsTx decrements available_seats by n only when at least n remain.
// The guard lives in the WHERE clause, so under concurrent bookings the
// row lock serialises the check-and-decrement and overselling is
// impossible.  It reports whether a row was updated.
func (r *FlightRepo) TakeSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, n uint32) (bool, error) {
	const q = `UPDATE flights SET available_seats = available_seats - ?
	           WHERE id = ? AND available_seats >= ?`
	res, err := tx.ExecContext(ctx, q, n, id, n)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ReturnSeatsTx increments available_seats by n only while the result
// stays within seat_total.  A zero-row update means the increment would
// have exceeded the physical seat count.
func (r *FlightRepo) ReturnSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, n uint32) (bool, error) {
	const q = `UPDATE flights SET available_seats = available_seats + ?
	           WHERE id = ? AND available_seats + ? <= seat_total`
	res, err := tx.ExecContext(ctx, q, n, id, n)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// DeleteTx removes the flight row.  Dependent rows must already be gone;
// the deletion coordinator guarantees the order.
func (r *FlightRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `DELETE FROM flights WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFlightNotFound
	}
	return nil
}
