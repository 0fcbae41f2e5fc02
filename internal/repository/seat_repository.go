package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/skylane/airline-reservation/internal/model"
)

// SeatRepo provides persistence for seats.  Availability flips always
// carry an is_available guard in the WHERE clause so the row count tells
// the caller exactly how many seats actually changed state.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatColumns = `id, flight_id, seat_number, class, is_available, created_at, updated_at`

// CreateBulkTx inserts all seats of a flight in a single statement.  Used
// once per flight, at creation, when the aircraft layout is expanded.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (flight_id, seat_number, class, is_available) VALUES `
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.FlightID, s.SeatNumber, s.Class, s.IsAvailable)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByFlight returns every seat of a flight ordered by seat number.
func (r *SeatRepo) GetByFlight(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE flight_id = ? ORDER BY seat_number`
	return r.querySeats(ctx, q, flightID)
}

// GetAvailableByFlight returns only the seats still open for booking.
func (r *SeatRepo) GetAvailableByFlight(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats
	           WHERE flight_id = ? AND is_available = TRUE ORDER BY seat_number`
	return r.querySeats(ctx, q, flightID)
}

func (r *SeatRepo) querySeats(ctx context.Context, q string, args ...any) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeats(rows)
}

func collectSeats(rows *sql.Rows) ([]model.Seat, error) {
	var out []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class,
			&s.IsAvailable, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByIDsForFlightTx returns the subset of ids that are seats of the
// given flight, within a transaction.  Callers detect unknown or foreign
// seats by comparing lengths.
func (r *SeatRepo) GetByIDsForFlightTx(ctx context.Context, tx *sql.Tx, flightID uint64, ids []uint64) ([]model.Seat, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + seatColumns + ` FROM seats
	      WHERE flight_id = ? AND id IN (` + placeholders(len(ids)) + `) ORDER BY seat_number`
	args := make([]any, 0, len(ids)+1)
	args = append(args, flightID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeats(rows)
}

// MarkUnavailableTx flips the given seats to unavailable, skipping rows
// that already are, and returns the number of rows flipped.
func (r *SeatRepo) MarkUnavailableTx(ctx context.Context, tx *sql.Tx, flightID uint64, ids []uint64) (int64, error) {
	return r.setAvailabilityTx(ctx, tx, flightID, ids, false)
}

// MarkAvailableTx flips the given seats to available, skipping rows that
// already are, and returns the number of rows flipped.
func (r *SeatRepo) MarkAvailableTx(ctx context.Context, tx *sql.Tx, flightID uint64, ids []uint64) (int64, error) {
	return r.setAvailabilityTx(ctx, tx, flightID, ids, true)
}

func (r *SeatRepo) setAvailabilityTx(ctx context.Context, tx *sql.Tx, flightID uint64, ids []uint64, available bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `UPDATE seats SET is_available = ?
	      WHERE flight_id = ? AND is_available = ? AND id IN (` + placeholders(len(ids)) + `)`
	args := make([]any, 0, len(ids)+3)
	args = append(args, available, flightID, !available)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountAvailableByFlightTx counts seats with is_available = TRUE; used by
// integrity checks against the flight counter.
func (r *SeatRepo) CountAvailableByFlightTx(ctx context.Context, tx *sql.Tx, flightID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE flight_id = ? AND is_available = TRUE`
	var n uint32
	if err := tx.QueryRowContext(ctx, q, flightID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteByFlightTx removes all seats of a flight and returns how many rows
// went.  Tickets referencing the seats must already be deleted.
func (r *SeatRepo) DeleteByFlightTx(ctx context.Context, tx *sql.Tx, flightID uint64) (int64, error) {
	const q = `DELETE FROM seats WHERE flight_id = ?`
	res, err := tx.ExecContext(ctx, q, flightID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetByID fetches one seat.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.FlightID, &s.SeatNumber,
		&s.Class, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
