package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/skylane/airline-reservation/internal/model"
)

// memStore is an in-memory Store for tests.  WithinTx runs the callback
// against a deep copy of the data and swaps the copy in only when the
// callback succeeds, which mirrors commit/rollback: a failed operation
// leaves the visible state untouched.
type memStore struct {
	mu   sync.Mutex
	data *memData

	// Fault injection for rollback tests.
	failSeatDeleteByFlight bool
	failFlightStatusFor    map[uint64]bool
}

type memData struct {
	nextID       uint64
	flights      map[uint64]*model.Flight
	seats        map[uint64]*model.Seat
	reservations map[uint64]*model.Reservation
	tickets      map[uint64]*model.Ticket
	aircraft     map[uint64]*model.Aircraft
}

func newMemStore() *memStore {
	return &memStore{
		data: &memData{
			flights:      map[uint64]*model.Flight{},
			seats:        map[uint64]*model.Seat{},
			reservations: map[uint64]*model.Reservation{},
			tickets:      map[uint64]*model.Ticket{},
			aircraft:     map[uint64]*model.Aircraft{},
		},
		failFlightStatusFor: map[uint64]bool{},
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		nextID:       d.nextID,
		flights:      make(map[uint64]*model.Flight, len(d.flights)),
		seats:        make(map[uint64]*model.Seat, len(d.seats)),
		reservations: make(map[uint64]*model.Reservation, len(d.reservations)),
		tickets:      make(map[uint64]*model.Ticket, len(d.tickets)),
		aircraft:     make(map[uint64]*model.Aircraft, len(d.aircraft)),
	}
	for id, f := range d.flights {
		cp := *f
		c.flights[id] = &cp
	}
	for id, s := range d.seats {
		cp := *s
		c.seats[id] = &cp
	}
	for id, r := range d.reservations {
		cp := *r
		cp.SeatIDs = append([]uint64(nil), r.SeatIDs...)
		c.reservations[id] = &cp
	}
	for id, t := range d.tickets {
		cp := *t
		c.tickets[id] = &cp
	}
	for id, a := range d.aircraft {
		cp := *a
		c.aircraft[id] = &cp
	}
	return c
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(&memTx{store: s, d: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// ----- seed and inspection helpers (outside any transaction) -----

func (s *memStore) addAircraft(status model.AircraftStatus, layout model.SeatLayout) *model.Aircraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	a := &model.Aircraft{
		ID:         s.data.nextID,
		TailNumber: fmt.Sprintf("D-TEST%d", s.data.nextID),
		Model:      "A320neo",
		Status:     status,
		Layout:     layout,
	}
	s.data.aircraft[a.ID] = a
	return a
}

func (s *memStore) addFlight(aircraftID uint64, status model.FlightStatus, departsAt time.Time, basePriceCents uint32) *model.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	f := &model.Flight{
		ID:             s.data.nextID,
		FlightNumber:   fmt.Sprintf("SK%03d", s.data.nextID),
		AircraftID:     aircraftID,
		RouteID:        1,
		DepartsAt:      departsAt,
		ArrivesAt:      departsAt.Add(2 * time.Hour),
		Status:         status,
		BasePriceCents: basePriceCents,
	}
	s.data.flights[f.ID] = f
	return f
}

// addSeats creates one seat per class entry, bumps the flight's totals and
// returns the new seat IDs.
func (s *memStore) addSeats(flightID uint64, classes ...model.SeatClass) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(classes))
	for i, class := range classes {
		s.data.nextID++
		seat := &model.Seat{
			ID:          s.data.nextID,
			FlightID:    flightID,
			SeatNumber:  fmt.Sprintf("%d%c", i+1, 'A'),
			Class:       class,
			IsAvailable: true,
		}
		s.data.seats[seat.ID] = seat
		ids = append(ids, seat.ID)
	}
	f := s.data.flights[flightID]
	f.SeatTotal += uint32(len(classes))
	f.AvailableSeats += uint32(len(classes))
	return ids
}

func (s *memStore) flight(id uint64) model.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.data.flights[id]
}

func (s *memStore) seat(id uint64) model.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.data.seats[id]
}

func (s *memStore) aircraftByID(id uint64) model.Aircraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.data.aircraft[id]
}

func (s *memStore) reservationByID(id uint64) model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.data.reservations[id]
}

func (s *memStore) hasFlight(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data.flights[id]
	return ok
}

func (s *memStore) hasAircraft(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data.aircraft[id]
	return ok
}

func (s *memStore) countSeats(flightID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, seat := range s.data.seats {
		if seat.FlightID == flightID {
			n++
		}
	}
	return n
}

func (s *memStore) countReservations(flightID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.data.reservations {
		if r.FlightID == flightID {
			n++
		}
	}
	return n
}

func (s *memStore) ticketsByReservation(reservationID uint64) []model.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Ticket
	for _, t := range s.data.tickets {
		if t.ReservationID == reservationID {
			out = append(out, *t)
		}
	}
	return out
}

func (s *memStore) countTickets(flightID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.data.tickets {
		if t.FlightID == flightID {
			n++
		}
	}
	return n
}

// ----- transactional view -----

type memTx struct {
	store *memStore
	d     *memData
}

func (t *memTx) Flights() FlightStore           { return &memFlights{t} }
func (t *memTx) Seats() SeatStore               { return &memSeats{t} }
func (t *memTx) Reservations() ReservationStore { return &memReservations{t} }
func (t *memTx) Tickets() TicketStore           { return &memTickets{t} }
func (t *memTx) Aircraft() AircraftStore        { return &memAircraft{t} }

var _ Store = (*memStore)(nil)
var _ Tx = (*memTx)(nil)

var errInjected = errors.New("injected failure")

type memFlights struct{ tx *memTx }

func (m *memFlights) ByID(ctx context.Context, id uint64) (*model.Flight, error) {
	f, ok := m.tx.d.flights[id]
	if !ok {
		return nil, fmt.Errorf("%w: flight %d", ErrNotFound, id)
	}
	cp := *f
	return &cp, nil
}

func (m *memFlights) ByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error) {
	var out []model.Flight
	for _, f := range m.tx.d.flights {
		if f.AircraftID == aircraftID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memFlights) Create(ctx context.Context, f *model.Flight) error {
	m.tx.d.nextID++
	f.ID = m.tx.d.nextID
	cp := *f
	m.tx.d.flights[f.ID] = &cp
	return nil
}

func (m *memFlights) UpdateStatus(ctx context.Context, id uint64, status model.FlightStatus) error {
	if m.tx.store.failFlightStatusFor[id] {
		return errInjected
	}
	f, ok := m.tx.d.flights[id]
	if !ok {
		return fmt.Errorf("%w: flight %d", ErrNotFound, id)
	}
	f.Status = status
	return nil
}

func (m *memFlights) Delete(ctx context.Context, id uint64) error {
	if _, ok := m.tx.d.flights[id]; !ok {
		return fmt.Errorf("%w: flight %d", ErrNotFound, id)
	}
	delete(m.tx.d.flights, id)
	return nil
}

func (m *memFlights) TakeSeats(ctx context.Context, id uint64, n uint32) (bool, error) {
	f, ok := m.tx.d.flights[id]
	if !ok || f.AvailableSeats < n {
		return false, nil
	}
	f.AvailableSeats -= n
	return true, nil
}

func (m *memFlights) ReturnSeats(ctx context.Context, id uint64, n uint32) (bool, error) {
	f, ok := m.tx.d.flights[id]
	if !ok || f.AvailableSeats+n > f.SeatTotal {
		return false, nil
	}
	f.AvailableSeats += n
	return true, nil
}

type memSeats struct{ tx *memTx }

func (m *memSeats) ByIDsForFlight(ctx context.Context, flightID uint64, ids []uint64) ([]model.Seat, error) {
	var out []model.Seat
	for _, id := range ids {
		if s, ok := m.tx.d.seats[id]; ok && s.FlightID == flightID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSeats) MarkUnavailable(ctx context.Context, flightID uint64, ids []uint64) (int64, error) {
	return m.setAvailability(flightID, ids, false), nil
}

func (m *memSeats) MarkAvailable(ctx context.Context, flightID uint64, ids []uint64) (int64, error) {
	return m.setAvailability(flightID, ids, true), nil
}

func (m *memSeats) setAvailability(flightID uint64, ids []uint64, available bool) int64 {
	var flipped int64
	for _, id := range ids {
		s, ok := m.tx.d.seats[id]
		if !ok || s.FlightID != flightID || s.IsAvailable == available {
			continue
		}
		s.IsAvailable = available
		flipped++
	}
	return flipped
}

func (m *memSeats) CreateBulk(ctx context.Context, seats []model.Seat) error {
	for i := range seats {
		m.tx.d.nextID++
		seats[i].ID = m.tx.d.nextID
		cp := seats[i]
		m.tx.d.seats[cp.ID] = &cp
	}
	return nil
}

func (m *memSeats) DeleteByFlight(ctx context.Context, flightID uint64) (int64, error) {
	if m.tx.store.failSeatDeleteByFlight {
		return 0, errInjected
	}
	var n int64
	for id, s := range m.tx.d.seats {
		if s.FlightID == flightID {
			delete(m.tx.d.seats, id)
			n++
		}
	}
	return n, nil
}

type memReservations struct{ tx *memTx }

func (m *memReservations) ByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := m.tx.d.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	cp := *r
	// Like the SQL store, seat IDs are derived from the reservation's
	// tickets, ordered by ticket id.
	var ticketIDs []uint64
	for tid, t := range m.tx.d.tickets {
		if t.ReservationID == id {
			ticketIDs = append(ticketIDs, tid)
		}
	}
	if len(ticketIDs) > 0 {
		sort.Slice(ticketIDs, func(i, j int) bool { return ticketIDs[i] < ticketIDs[j] })
		cp.SeatIDs = make([]uint64, 0, len(ticketIDs))
		for _, tid := range ticketIDs {
			cp.SeatIDs = append(cp.SeatIDs, m.tx.d.tickets[tid].SeatID)
		}
	} else {
		cp.SeatIDs = append([]uint64(nil), r.SeatIDs...)
	}
	return &cp, nil
}

func (m *memReservations) Create(ctx context.Context, r *model.Reservation) error {
	m.tx.d.nextID++
	r.ID = m.tx.d.nextID
	cp := *r
	cp.SeatIDs = append([]uint64(nil), r.SeatIDs...)
	m.tx.d.reservations[r.ID] = &cp
	return nil
}

func (m *memReservations) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	r, ok := m.tx.d.reservations[id]
	if !ok {
		return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	r.Status = status
	return nil
}

func (m *memReservations) AttachPayment(ctx context.Context, id uint64, paymentRef string) error {
	r, ok := m.tx.d.reservations[id]
	if !ok {
		return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	r.PaymentRef = &paymentRef
	return nil
}

func (m *memReservations) UpdateTotal(ctx context.Context, id uint64, totalCents uint32) error {
	r, ok := m.tx.d.reservations[id]
	if !ok {
		return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	r.TotalPriceCents = totalCents
	return nil
}

func (m *memReservations) IDsByFlight(ctx context.Context, flightID uint64) ([]uint64, error) {
	var out []uint64
	for id, r := range m.tx.d.reservations {
		if r.FlightID == flightID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memReservations) DeleteByFlight(ctx context.Context, flightID uint64) (int64, error) {
	var n int64
	for id, r := range m.tx.d.reservations {
		if r.FlightID == flightID {
			delete(m.tx.d.reservations, id)
			n++
		}
	}
	return n, nil
}

type memTickets struct{ tx *memTx }

func (m *memTickets) CreateBulk(ctx context.Context, tickets []model.Ticket) error {
	for i := range tickets {
		m.tx.d.nextID++
		tickets[i].ID = m.tx.d.nextID
		cp := tickets[i]
		m.tx.d.tickets[cp.ID] = &cp
	}
	return nil
}

func (m *memTickets) DeleteByReservation(ctx context.Context, reservationID uint64) (int64, error) {
	var n int64
	for id, t := range m.tx.d.tickets {
		if t.ReservationID == reservationID {
			delete(m.tx.d.tickets, id)
			n++
		}
	}
	return n, nil
}

func (m *memTickets) DeleteByFlight(ctx context.Context, flightID uint64) (int64, error) {
	var n int64
	for id, t := range m.tx.d.tickets {
		if t.FlightID == flightID {
			delete(m.tx.d.tickets, id)
			n++
		}
	}
	return n, nil
}

type memAircraft struct{ tx *memTx }

func (m *memAircraft) ByID(ctx context.Context, id uint64) (*model.Aircraft, error) {
	a, ok := m.tx.d.aircraft[id]
	if !ok {
		return nil, fmt.Errorf("%w: aircraft %d", ErrNotFound, id)
	}
	cp := *a
	return &cp, nil
}

func (m *memAircraft) UpdateStatus(ctx context.Context, id uint64, status model.AircraftStatus) error {
	a, ok := m.tx.d.aircraft[id]
	if !ok {
		return fmt.Errorf("%w: aircraft %d", ErrNotFound, id)
	}
	a.Status = status
	return nil
}

func (m *memAircraft) Delete(ctx context.Context, id uint64) error {
	if _, ok := m.tx.d.aircraft[id]; !ok {
		return fmt.Errorf("%w: aircraft %d", ErrNotFound, id)
	}
	delete(m.tx.d.aircraft, id)
	return nil
}

// eventRecorder captures post-commit event publishes.
type eventRecorder struct {
	mu        sync.Mutex
	confirmed []uint64
	cascades  []string
}

func (e *eventRecorder) ReservationConfirmed(ctx context.Context, r *model.Reservation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirmed = append(e.confirmed, r.ID)
}

func (e *eventRecorder) FlightStatusChanged(ctx context.Context, flightID uint64, from, to model.FlightStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cascades = append(e.cascades, fmt.Sprintf("%d:%s->%s", flightID, from, to))
}

var _ Events = (*eventRecorder)(nil)
