package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skylane/airline-reservation/internal/model"
)

// AirportRepo is plain reference-data CRUD keyed by the unique IATA code.
type AirportRepo struct {
	db *sql.DB
}

func NewAirportRepo(db *sql.DB) *AirportRepo { return &AirportRepo{db: db} }

const airportColumns = `id, code, name, city, country, created_at, updated_at`

func (r *AirportRepo) Create(ctx context.Context, a *model.Airport) error {
	const q = `INSERT INTO airports (code, name, city, country) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Code, a.Name, a.City, a.Country)
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

func (r *AirportRepo) GetByID(ctx context.Context, id uint64) (*model.Airport, error) {
	const q = `SELECT ` + airportColumns + ` FROM airports WHERE id = ?`
	var a model.Airport
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAirportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AirportRepo) GetByCode(ctx context.Context, code string) (*model.Airport, error) {
	const q = `SELECT ` + airportColumns + ` FROM airports WHERE code = ?`
	var a model.Airport
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAirportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AirportRepo) GetAll(ctx context.Context) ([]model.Airport, error) {
	const q = `SELECT ` + airportColumns + ` FROM airports ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Airport
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AirportRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM airports WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAirportNotFound
	}
	return nil
}
