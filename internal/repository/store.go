package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skylane/airline-reservation/internal/model"
	"github.com/skylane/airline-reservation/internal/service"
)

// SQLStore adapts the repositories to the service layer's unit-of-work
// interface.  One SQLStore wraps one injected *sql.DB; every WithinTx call
// opens a transaction, hands the bound per-entity stores to fn, and
// commits only when fn returns nil.
type SQLStore struct {
	db           *sql.DB
	flights      *FlightRepo
	seats        *SeatRepo
	reservations *ReservationRepo
	tickets      *TicketRepo
	aircraft     *AircraftRepo
}

// NewSQLStore builds the store over an open database handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:           db,
		flights:      NewFlightRepo(db),
		seats:        NewSeatRepo(db),
		reservations: NewReservationRepo(db),
		tickets:      NewTicketRepo(db),
		aircraft:     NewAircraftRepo(db),
	}
}

// WithinTx implements service.Store.  The transaction is rolled back on
// error or panic and committed otherwise.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{tx: tx, store: s}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// sqlTx binds the repositories to one open transaction.
type sqlTx struct {
	tx    *sql.Tx
	store *SQLStore
}

func (t *sqlTx) Flights() service.FlightStore           { return &flightTx{t} }
func (t *sqlTx) Seats() service.SeatStore               { return &seatTx{t} }
func (t *sqlTx) Reservations() service.ReservationStore { return &reservationTx{t} }
func (t *sqlTx) Tickets() service.TicketStore           { return &ticketTx{t} }
func (t *sqlTx) Aircraft() service.AircraftStore        { return &aircraftTx{t} }

// asNotFound remaps the repository's per-entity miss sentinels onto the
// service-level ErrNotFound the engine's contract promises.
func asNotFound(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		ErrFlightNotFound, ErrSeatNotFound, ErrReservationNotFound,
		ErrAircraftNotFound, ErrAirlineNotFound, ErrAirportNotFound,
		ErrRouteNotFound, ErrUserNotFound,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%w: %s", service.ErrNotFound, err)
		}
	}
	return err
}

type flightTx struct{ t *sqlTx }

func (f *flightTx) ByID(ctx context.Context, id uint64) (*model.Flight, error) {
	fl, err := f.t.store.flights.GetByIDTx(ctx, f.t.tx, id)
	return fl, asNotFound(err)
}

func (f *flightTx) ByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error) {
	return f.t.store.flights.GetByAircraftTx(ctx, f.t.tx, aircraftID)
}

func (f *flightTx) Create(ctx context.Context, fl *model.Flight) error {
	return f.t.store.flights.CreateTx(ctx, f.t.tx, fl)
}

func (f *flightTx) UpdateStatus(ctx context.Context, id uint64, status model.FlightStatus) error {
	return asNotFound(f.t.store.flights.UpdateStatusTx(ctx, f.t.tx, id, status))
}

func (f *flightTx) Delete(ctx context.Context, id uint64) error {
	return asNotFound(f.t.store.flights.DeleteTx(ctx, f.t.tx, id))
}

func (f *flightTx) TakeSeats(ctx context.Context, id uint64, n uint32) (bool, error) {
	return f.t.store.flights.TakeSeatsTx(ctx, f.t.tx, id, n)
}

func (f *flightTx) ReturnSeats(ctx context.Context, id uint64, n uint32) (bool, error) {
	return f.t.store.flights.ReturnSeatsTx(ctx, f.t.tx, id, n)
}

type seatTx struct{ t *sqlTx }

func (s *seatTx) ByIDsForFlight(ctx context.Context, flightID uint64, ids []uint64) ([]model.Seat, error) {
	return s.t.store.seats.GetByIDsForFlightTx(ctx, s.t.tx, flightID, ids)
}

func (s *seatTx) MarkUnavailable(ctx context.Context, flightID uint64, ids []uint64) (int64, error) {
	return s.t.store.seats.MarkUnavailableTx(ctx, s.t.tx, flightID, ids)
}

func (s *seatTx) MarkAvailable(ctx context.Context, flightID uint64, ids []uint64) (int64, error) {
	return s.t.store.seats.MarkAvailableTx(ctx, s.t.tx, flightID, ids)
}

func (s *seatTx) CreateBulk(ctx context.Context, seats []model.Seat) error {
	return s.t.store.seats.CreateBulkTx(ctx, s.t.tx, seats)
}

func (s *seatTx) DeleteByFlight(ctx context.Context, flightID uint64) (int64, error) {
	return s.t.store.seats.DeleteByFlightTx(ctx, s.t.tx, flightID)
}

type reservationTx struct{ t *sqlTx }

func (r *reservationTx) ByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := r.t.store.reservations.GetByIDTx(ctx, r.t.tx, id)
	return res, asNotFound(err)
}

func (r *reservationTx) Create(ctx context.Context, res *model.Reservation) error {
	return r.t.store.reservations.CreateTx(ctx, r.t.tx, res)
}

func (r *reservationTx) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	return asNotFound(r.t.store.reservations.UpdateStatusTx(ctx, r.t.tx, id, status))
}

func (r *reservationTx) AttachPayment(ctx context.Context, id uint64, paymentRef string) error {
	return r.t.store.reservations.AttachPaymentTx(ctx, r.t.tx, id, paymentRef)
}

func (r *reservationTx) UpdateTotal(ctx context.Context, id uint64, totalCents uint32) error {
	return r.t.store.reservations.UpdateTotalTx(ctx, r.t.tx, id, totalCents)
}

func (r *reservationTx) IDsByFlight(ctx context.Context, flightID uint64) ([]uint64, error) {
	return r.t.store.reservations.IDsByFlightTx(ctx, r.t.tx, flightID)
}

func (r *reservationTx) DeleteByFlight(ctx context.Context, flightID uint64) (int64, error) {
	return r.t.store.reservations.DeleteByFlightTx(ctx, r.t.tx, flightID)
}

type ticketTx struct{ t *sqlTx }

func (tk *ticketTx) CreateBulk(ctx context.Context, tickets []model.Ticket) error {
	return tk.t.store.tickets.CreateBulkTx(ctx, tk.t.tx, tickets)
}

func (tk *ticketTx) DeleteByReservation(ctx context.Context, reservationID uint64) (int64, error) {
	return tk.t.store.tickets.DeleteByReservationTx(ctx, tk.t.tx, reservationID)
}

func (tk *ticketTx) DeleteByFlight(ctx context.Context, flightID uint64) (int64, error) {
	return tk.t.store.tickets.DeleteByFlightTx(ctx, tk.t.tx, flightID)
}

type aircraftTx struct{ t *sqlTx }

func (a *aircraftTx) ByID(ctx context.Context, id uint64) (*model.Aircraft, error) {
	ac, err := a.t.store.aircraft.GetByIDTx(ctx, a.t.tx, id)
	return ac, asNotFound(err)
}

func (a *aircraftTx) UpdateStatus(ctx context.Context, id uint64, status model.AircraftStatus) error {
	return asNotFound(a.t.store.aircraft.UpdateStatusTx(ctx, a.t.tx, id, status))
}

func (a *aircraftTx) Delete(ctx context.Context, id uint64) error {
	return asNotFound(a.t.store.aircraft.DeleteTx(ctx, a.t.tx, id))
}

// Interface conformance checks.
var (
	_ service.Store = (*SQLStore)(nil)
	_ service.Tx    = (*sqlTx)(nil)
)
