// Package repository implements MySQL persistence for the reservation
// system.  Each entity gets its own repository struct over an injected
// *sql.DB; methods with a Tx suffix run inside a caller-owned
// transaction.  SQLStore adapts the repositories to the unit-of-work
// interface the service layer consumes.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert or update violates a unique
// constraint, e.g. reusing a flight number or an airport code.  Handlers
// translate it into HTTP 409.
var ErrDuplicate = errors.New("duplicate entry")

// Per-entity not-found sentinels.  Read paths outside a unit of work
// return these directly; inside a unit of work the SQLStore adapters remap
// misses onto service.ErrNotFound.
var (
	ErrFlightNotFound      = errors.New("flight not found")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAircraftNotFound    = errors.New("aircraft not found")
	ErrAirlineNotFound     = errors.New("airline not found")
	ErrAirportNotFound     = errors.New("airport not found")
	ErrRouteNotFound       = errors.New("route not found")
	ErrUserNotFound        = errors.New("user not found")
)

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
