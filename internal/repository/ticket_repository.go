package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/airline-reservation/internal/model"
)

// TicketRepo provides persistence for tickets, the link rows between
// reservations and seats.  Tickets are created and destroyed in bulk
// alongside their reservation; there is no single-row update path.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// CreateBulkTx inserts all tickets of a reservation in a single statement.
func (r *TicketRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (reservation_id, flight_id, seat_id, price_cents) VALUES `
	args := make([]any, 0, len(tickets)*4)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, t.ReservationID, t.FlightID, t.SeatID, t.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteByReservationTx removes a reservation's tickets and returns the
// row count.
func (r *TicketRepo) DeleteByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (int64, error) {
	const q = `DELETE FROM tickets WHERE reservation_id = ?`
	res, err := tx.ExecContext(ctx, q, reservationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByFlightTx removes every ticket on a flight, the first step of the
// flight teardown.
func (r *TicketRepo) DeleteByFlightTx(ctx context.Context, tx *sql.Tx, flightID uint64) (int64, error) {
	const q = `DELETE FROM tickets WHERE flight_id = ?`
	res, err := tx.ExecContext(ctx, q, flightID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
