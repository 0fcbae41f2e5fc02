package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skylane/airline-reservation/internal/model"
)

// UserRepo provides persistence for accounts.  The role-specific payload
// columns are nullable; scanUser populates exactly the payload struct that
// matches the stored role.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, password_hash, full_name, role,
       passport_no, frequent_flyer_no, airline_id, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var passport, frequentFlyer sql.NullString
	var airlineID sql.NullInt64
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&passport, &frequentFlyer, &airlineID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	switch u.Role {
	case model.RoleCustomer:
		p := &model.CustomerProfile{PassportNo: passport.String}
		if frequentFlyer.Valid {
			ff := frequentFlyer.String
			p.FrequentFly = &ff
		}
		u.Customer = p
	case model.RoleFlightAgent:
		u.Agent = &model.AgentProfile{AirlineID: uint64(airlineID.Int64)}
	case model.RoleSystemAdmin:
		u.Admin = &model.AdminProfile{}
	}
	return &u, nil
}

// Create inserts a new user.  The payload columns are taken from whichever
// profile pointer matches the role; the rest stay NULL.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	var passport, frequentFlyer any
	var airlineID any
	switch u.Role {
	case model.RoleCustomer:
		if u.Customer != nil {
			passport = u.Customer.PassportNo
			if u.Customer.FrequentFly != nil {
				frequentFlyer = *u.Customer.FrequentFly
			}
		}
	case model.RoleFlightAgent:
		if u.Agent != nil {
			airlineID = u.Agent.AirlineID
		}
	}
	const q = `INSERT INTO users
	           (email, password_hash, full_name, role, passport_no, frequent_flyer_no, airline_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Email, u.PasswordHash, u.FullName, u.Role,
		passport, frequentFlyer, airlineID)
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
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user for login.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}
