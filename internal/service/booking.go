package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skylane/airline-reservation/internal/model"
)

// Booking drives the reservation state machine:
//
//	PENDING   -> CONFIRMED | CANCELLED
//	CONFIRMED -> CANCELLED | COMPLETED
//	CANCELLED, COMPLETED -> (terminal)
//
// Every operation is one unit of work; seat claims, ticket rows and status
// changes commit together or not at all.
type Booking struct {
	store  Store
	inv    Inventory
	events Events // may be nil
}

// NewBooking constructs the booking service.  events may be nil to disable
// publishing.
func NewBooking(store Store, events Events) *Booking {
	if store == nil {
		panic("nil store passed to NewBooking")
	}
	return &Booking{store: store, events: events}
}

// Book creates a reservation for customerID on flightID covering seatIDs.
// The seats are claimed first; if the claim fails nothing is persisted.
// With a payment reference the reservation starts CONFIRMED, otherwise
// PENDING.  The total price is quoted once, here, and fixed into the
// record.
func (b *Booking) Book(ctx context.Context, customerID, flightID uint64, seatIDs []uint64, paymentRef *string) (*model.Reservation, error) {
	seatIDs = dedupeIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, fmt.Errorf("%w: seat list is empty", ErrValidation)
	}

	var res *model.Reservation
	err := b.store.WithinTx(ctx, func(tx Tx) error {
		flight, err := tx.Flights().ByID(ctx, flightID)
		if err != nil {
			return err
		}
		if flight.Status == model.FlightCancelled || flight.Status == model.FlightCompleted {
			return fmt.Errorf("%w: flight %s is %s", ErrInvalidState, flight.FlightNumber, flight.Status)
		}

		seats, err := tx.Seats().ByIDsForFlight(ctx, flightID, seatIDs)
		if err != nil {
			return err
		}
		if len(seats) != len(seatIDs) {
			return fmt.Errorf("%w: %d of %d seats do not belong to flight %d",
				ErrNotFound, len(seatIDs)-len(seats), len(seatIDs), flightID)
		}

		total, err := Quote(flight.BasePriceCents, seats)
		if err != nil {
			return err
		}

		if err := b.inv.Reserve(ctx, tx, flightID, seatIDs); err != nil {
			return err
		}

		status := model.ReservationPending
		if paymentRef != nil && *paymentRef != "" {
			status = model.ReservationConfirmed
		}
		r := &model.Reservation{
			BookingRef:      uuid.NewString(),
			CustomerID:      customerID,
			FlightID:        flightID,
			Status:          status,
			TotalPriceCents: total,
			PaymentRef:      paymentRef,
			BookedAt:        time.Now().UTC(),
			SeatIDs:         seatIDs,
		}
		if err := tx.Reservations().Create(ctx, r); err != nil {
			return err
		}
		if err := tx.Tickets().CreateBulk(ctx, ticketsFor(r, flight.BasePriceCents, seats)); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Status == model.ReservationConfirmed && b.events != nil {
		b.events.ReservationConfirmed(ctx, res)
	}
	return res, nil
}

// Confirm attaches a payment reference to a PENDING reservation and moves
// it to CONFIRMED.  Any other current status is an invalid transition and
// mutates nothing.
func (b *Booking) Confirm(ctx context.Context, reservationID uint64, paymentRef string) error {
	if paymentRef == "" {
		return fmt.Errorf("%w: payment reference is required", ErrValidation)
	}
	var confirmed *model.Reservation
	err := b.store.WithinTx(ctx, func(tx Tx) error {
		r, err := tx.Reservations().ByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.Status != model.ReservationPending {
			return fmt.Errorf("%w: cannot confirm a %s reservation", ErrInvalidState, r.Status)
		}
		if err := tx.Reservations().AttachPayment(ctx, reservationID, paymentRef); err != nil {
			return err
		}
		if err := tx.Reservations().UpdateStatus(ctx, reservationID, model.ReservationConfirmed); err != nil {
			return err
		}
		r.Status = model.ReservationConfirmed
		r.PaymentRef = &paymentRef
		confirmed = r
		return nil
	})
	if err != nil {
		return err
	}
	if b.events != nil {
		b.events.ReservationConfirmed(ctx, confirmed)
	}
	return nil
}

// Cancel releases the reservation's seats and moves it to CANCELLED.  Both
// writes commit together, so a crash in between can never strand seats as
// unavailable with no live reservation.  Cancelling an already-cancelled
// reservation is a no-op success; cancelling a COMPLETED one is an invalid
// transition.
func (b *Booking) Cancel(ctx context.Context, reservationID uint64) error {
	return b.store.WithinTx(ctx, func(tx Tx) error {
		r, err := tx.Reservations().ByID(ctx, reservationID)
		if err != nil {
			return err
		}
		switch r.Status {
		case model.ReservationCancelled:
			return nil // safe retry
		case model.ReservationCompleted:
			return fmt.Errorf("%w: cannot cancel a completed reservation", ErrInvalidState)
		}
		if err := b.inv.Release(ctx, tx, r.FlightID, r.SeatIDs); err != nil {
			return err
		}
		return tx.Reservations().UpdateStatus(ctx, reservationID, model.ReservationCancelled)
	})
}

// Complete moves a CONFIRMED reservation to COMPLETED after the flight has
// been flown.  Seats are not released; the flight is over.
func (b *Booking) Complete(ctx context.Context, reservationID uint64) error {
	return b.store.WithinTx(ctx, func(tx Tx) error {
		r, err := tx.Reservations().ByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.Status != model.ReservationConfirmed {
			return fmt.Errorf("%w: cannot complete a %s reservation", ErrInvalidState, r.Status)
		}
		return tx.Reservations().UpdateStatus(ctx, reservationID, model.ReservationCompleted)
	})
}

// Modify swaps the reservation's seats for newSeatIDs as a single atomic
// operation: old seats are released, new seats claimed, tickets rewritten
// and the total re-quoted inside one unit of work.  If the new seats
// cannot be claimed the original booking survives untouched; there is no
// window in which the customer holds nothing.
func (b *Booking) Modify(ctx context.Context, reservationID uint64, newSeatIDs []uint64) (*model.Reservation, error) {
	newSeatIDs = dedupeIDs(newSeatIDs)
	if len(newSeatIDs) == 0 {
		return nil, fmt.Errorf("%w: seat list is empty", ErrValidation)
	}
	var res *model.Reservation
	err := b.store.WithinTx(ctx, func(tx Tx) error {
		r, err := tx.Reservations().ByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.Status.Terminal() {
			return fmt.Errorf("%w: cannot modify a %s reservation", ErrInvalidState, r.Status)
		}
		flight, err := tx.Flights().ByID(ctx, r.FlightID)
		if err != nil {
			return err
		}
		seats, err := tx.Seats().ByIDsForFlight(ctx, r.FlightID, newSeatIDs)
		if err != nil {
			return err
		}
		if len(seats) != len(newSeatIDs) {
			return fmt.Errorf("%w: %d of %d seats do not belong to flight %d",
				ErrNotFound, len(newSeatIDs)-len(seats), len(newSeatIDs), r.FlightID)
		}

		// Release before claim so a swap within the same rows (e.g. 3A+3B
		// to 3B+3C) does not trip over its own holdings.
		if err := b.inv.Release(ctx, tx, r.FlightID, r.SeatIDs); err != nil {
			return err
		}
		if err := b.inv.Reserve(ctx, tx, r.FlightID, newSeatIDs); err != nil {
			return err
		}

		total, err := Quote(flight.BasePriceCents, seats)
		if err != nil {
			return err
		}
		if _, err := tx.Tickets().DeleteByReservation(ctx, reservationID); err != nil {
			return err
		}
		r.SeatIDs = newSeatIDs
		r.TotalPriceCents = total
		if err := tx.Tickets().CreateBulk(ctx, ticketsFor(r, flight.BasePriceCents, seats)); err != nil {
			return err
		}
		if err := tx.Reservations().UpdateTotal(ctx, reservationID, total); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ticketsFor builds one ticket per seat, each carrying its share of the
// quoted total.
func ticketsFor(r *model.Reservation, basePriceCents uint32, seats []model.Seat) []model.Ticket {
	tickets := make([]model.Ticket, 0, len(seats))
	for _, s := range seats {
		price, _ := SeatPriceCents(basePriceCents, s.Class)
		tickets = append(tickets, model.Ticket{
			ReservationID: r.ID,
			FlightID:      r.FlightID,
			SeatID:        s.ID,
			PriceCents:    price,
		})
	}
	return tickets
}

// dedupeIDs drops zero and repeated ids while preserving order.
func dedupeIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
