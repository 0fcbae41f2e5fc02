package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skylane/airline-reservation/internal/model"
)

// AircraftRepo provides persistence for the fleet.  The seat layout is
// stored as four columns and folded into model.SeatLayout on the way out.
type AircraftRepo struct {
	db *sql.DB
}

// NewAircraftRepo returns an AircraftRepo bound to the given database.
func NewAircraftRepo(db *sql.DB) *AircraftRepo { return &AircraftRepo{db: db} }

const aircraftColumns = `id, tail_number, model, status,
       first_rows, business_rows, economy_rows, seats_per_row, created_at, updated_at`

func scanAircraft(row interface{ Scan(...any) error }) (*model.Aircraft, error) {
	var a model.Aircraft
	err := row.Scan(&a.ID, &a.TailNumber, &a.Model, &a.Status,
		&a.Layout.FirstRows, &a.Layout.BusinessRows, &a.Layout.EconomyRows, &a.Layout.SeatsPerRow,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new aircraft.  A reused tail number surfaces as
// ErrDuplicate.
func (r *AircraftRepo) Create(ctx context.Context, a *model.Aircraft) error {
	const q = `INSERT INTO aircraft
	           (tail_number, model, status, first_rows, business_rows, economy_rows, seats_per_row)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.TailNumber, a.Model, a.Status,
		a.Layout.FirstRows, a.Layout.BusinessRows, a.Layout.EconomyRows, a.Layout.SeatsPerRow)
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
	a.ID = uint64(id)
	return nil
}

// GetByID fetches an aircraft outside a transaction.
func (r *AircraftRepo) GetByID(ctx context.Context, id uint64) (*model.Aircraft, error) {
	const q = `SELECT ` + aircraftColumns + ` FROM aircraft WHERE id = ?`
	a, err := scanAircraft(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAircraftNotFound
	}
	return a, err
}

// GetByIDTx fetches an aircraft within a transaction.
func (r *AircraftRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Aircraft, error) {
	const q = `SELECT ` + aircraftColumns + ` FROM aircraft WHERE id = ?`
	a, err := scanAircraft(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAircraftNotFound
	}
	return a, err
}

// GetAll lists the fleet ordered by tail number.
func (r *AircraftRepo) GetAll(ctx context.Context) ([]model.Aircraft, error) {
	const q = `SELECT ` + aircraftColumns + ` FROM aircraft ORDER BY tail_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Aircraft
	for rows.Next() {
		a, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateStatusTx sets the aircraft's status within a transaction; the
// cascade service pairs this with the flight updates it implies.
func (r *AircraftRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.AircraftStatus) error {
	const q = `UPDATE aircraft SET status = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAircraftNotFound
	}
	return nil
}

// DeleteTx removes the aircraft row.  All of its flights must already be
// torn down; the deletion coordinator guarantees the order.
func (r *AircraftRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `DELETE FROM aircraft WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAircraftNotFound
	}
	return nil
}
