package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skylane/airline-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  A reservation's
// seats live in the tickets table; loads inside a unit of work pull them
// back ordered by ticket id so the booking order is stable.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, booking_ref, customer_id, flight_id, status,
       total_price_cents, payment_ref, booked_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var payRef sql.NullString
	err := row.Scan(&res.ID, &res.BookingRef, &res.CustomerID, &res.FlightID, &res.Status,
		&res.TotalPriceCents, &payRef, &res.BookedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if payRef.Valid {
		ref := payRef.String
		res.PaymentRef = &ref
	}
	return &res, nil
}

// CreateTx inserts a new reservation within the given transaction and
// populates the generated ID.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (booking_ref, customer_id, flight_id, status, total_price_cents, payment_ref, booked_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.BookingRef, res.CustomerID, res.FlightID, res.Status,
		res.TotalPriceCents, res.PaymentRef, res.BookedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByIDTx loads a reservation and its seat ids within a transaction.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	const seatQ = `SELECT seat_id FROM tickets WHERE reservation_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		res.SeatIDs = append(res.SeatIDs, sid)
	}
	return res, rows.Err()
}

// GetByID loads a reservation outside a transaction (read surface).
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	const seatQ = `SELECT seat_id FROM tickets WHERE reservation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		res.SeatIDs = append(res.SeatIDs, sid)
	}
	return res, rows.Err()
}

// UpdateStatusTx sets the reservation's status within a transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// AttachPaymentTx stores the payment reference within a transaction.
func (r *ReservationRepo) AttachPaymentTx(ctx context.Context, tx *sql.Tx, id uint64, paymentRef string) error {
	const q = `UPDATE reservations SET payment_ref = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, paymentRef, id)
	return err
}

// UpdateTotalTx rewrites the stored total; only the seat-swap flow does
// this, inside the same unit of work that rewrites the tickets.
func (r *ReservationRepo) UpdateTotalTx(ctx context.Context, tx *sql.Tx, id uint64, totalCents uint32) error {
	const q = `UPDATE reservations SET total_price_cents = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, totalCents, id)
	return err
}

// IDsByFlightTx lists reservation ids on a flight, for the deletion walk.
func (r *ReservationRepo) IDsByFlightTx(ctx context.Context, tx *sql.Tx, flightID uint64) ([]uint64, error) {
	const q = `SELECT id FROM reservations WHERE flight_id = ?`
	rows, err := tx.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteByFlightTx removes every reservation of a flight and returns the
// row count.  Tickets must already be gone.
func (r *ReservationRepo) DeleteByFlightTx(ctx context.Context, tx *sql.Tx, flightID uint64) (int64, error) {
	const q = `DELETE FROM reservations WHERE flight_id = ?`
	res, err := tx.ExecContext(ctx, q, flightID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReservationDetail is the customer-facing view of a reservation: the
// reservation row joined with its flight and the booked seat numbers.
type ReservationDetail struct {
	ID              uint64   `json:"id"`
	BookingRef      string   `json:"booking_ref"`
	FlightID        uint64   `json:"flight_id"`
	FlightNumber    string   `json:"flight_number"`
	DepartsAt       string   `json:"departs_at"`
	ArrivesAt       string   `json:"arrives_at"`
	Status          string   `json:"status"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	PaymentRef      *string  `json:"payment_ref,omitempty"`
	SeatNumbers     []string `json:"seats"`
}

// ListByCustomer returns all reservations of a customer, newest first,
// with flight info and seat numbers resolved.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.booking_ref, r.flight_id, f.flight_number, f.departs_at, f.arrives_at,
	                  r.status, r.total_price_cents, r.payment_ref
	           FROM reservations r
	           JOIN flights f ON f.id = r.flight_id
	           WHERE r.customer_id = ?
	           ORDER BY r.booked_at DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		var payRef sql.NullString
		var departs, arrives time.Time
		if err := rows.Scan(&d.ID, &d.BookingRef, &d.FlightID, &d.FlightNumber, &departs, &arrives,
			&d.Status, &d.TotalPriceCents, &payRef); err != nil {
			return nil, err
		}
		d.DepartsAt = departs.UTC().Format(time.RFC3339)
		d.ArrivesAt = arrives.UTC().Format(time.RFC3339)
		if payRef.Valid {
			ref := payRef.String
			d.PaymentRef = &ref
		}
		d.SeatNumbers = []string{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// Resolve seat numbers for all reservations in one query.
	ids := make([]any, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
	}
	seatQ := `SELECT t.reservation_id, s.seat_number
	          FROM tickets t
	          JOIN seats s ON s.id = t.seat_id
	          WHERE t.reservation_id IN (` + placeholders(len(ids)) + `)
	          ORDER BY t.reservation_id, t.id`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var rid uint64
		var num string
		if err := srows.Scan(&rid, &num); err != nil {
			return nil, err
		}
		if idx, ok := index[rid]; ok {
			details[idx].SeatNumbers = append(details[idx].SeatNumbers, num)
		}
	}
	return details, srows.Err()
}
