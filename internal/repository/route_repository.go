package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skylane/airline-reservation/internal/model"
)

// RouteRepo is reference-data CRUD for the (airline, origin, destination)
// triples flights are scheduled on.
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

const routeColumns = `id, airline_id, origin_airport_id, destination_airport_id, created_at, updated_at`

func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	const q = `INSERT INTO routes (airline_id, origin_airport_id, destination_airport_id) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.AirlineID, rt.OriginID, rt.DestinationID)
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
	rt.ID = uint64(id)
	return nil
}

func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	const q = `SELECT ` + routeColumns + ` FROM routes WHERE id = ?`
	var rt model.Route
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rt.ID, &rt.AirlineID, &rt.OriginID, &rt.DestinationID, &rt.CreatedAt, &rt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RouteRepo) GetAll(ctx context.Context) ([]model.Route, error) {
	const q = `SELECT ` + routeColumns + ` FROM routes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Route
	for rows.Next() {
		var rt model.Route
		if err := rows.Scan(&rt.ID, &rt.AirlineID, &rt.OriginID, &rt.DestinationID, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM routes WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRouteNotFound
	}
	return nil
}
