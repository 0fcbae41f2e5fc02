package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skylane/airline-reservation/internal/model"
)

// AirlineRepo is plain reference-data CRUD; the only invariant is the
// unique IATA code.
type AirlineRepo struct {
	db *sql.DB
}

func NewAirlineRepo(db *sql.DB) *AirlineRepo { return &AirlineRepo{db: db} }

func (r *AirlineRepo) Create(ctx context.Context, a *model.Airline) error {
	const q = `INSERT INTO airlines (code, name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Code, a.Name)
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

func (r *AirlineRepo) GetByID(ctx context.Context, id uint64) (*model.Airline, error) {
	const q = `SELECT id, code, name, created_at, updated_at FROM airlines WHERE id = ?`
	var a model.Airline
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Code, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAirlineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AirlineRepo) GetAll(ctx context.Context) ([]model.Airline, error) {
	const q = `SELECT id, code, name, created_at, updated_at FROM airlines ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Airline
	for rows.Next() {
		var a model.Airline
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AirlineRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM airlines WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAirlineNotFound
	}
	return nil
}
