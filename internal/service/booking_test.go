package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/airline-reservation/internal/model"
)

func strPtr(s string) *string { return &s }

func TestBookStartsPendingWithoutPayment(t *testing.T) {
	store := newMemStore()
	events := &eventRecorder{}
	b := NewBooking(store, events)
	f, seatIDs := seedFlightWithSeats(t, store, 3)

	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:2], nil)
	require.NoError(t, err)

	assert.Equal(t, model.ReservationPending, res.Status)
	assert.NotEmpty(t, res.BookingRef)
	assert.Equal(t, uint32(20000), res.TotalPriceCents) // 2 economy seats at $100
	assert.Equal(t, uint32(1), store.flight(f.ID).AvailableSeats)
	assert.Len(t, store.ticketsByReservation(res.ID), 2)
	assert.Empty(t, events.confirmed, "pending bookings publish nothing")
}

func TestBookWithPaymentStartsConfirmed(t *testing.T) {
	store := newMemStore()
	events := &eventRecorder{}
	b := NewBooking(store, events)
	f, seatIDs := seedFlightWithSeats(t, store, 2)

	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], strPtr("pay-123"))
	require.NoError(t, err)

	assert.Equal(t, model.ReservationConfirmed, res.Status)
	require.NotNil(t, res.PaymentRef)
	assert.Equal(t, "pay-123", *res.PaymentRef)
	assert.Equal(t, []uint64{res.ID}, events.confirmed)
}

func TestBookOnCancelledFlightFails(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{EconomyRows: 1, SeatsPerRow: 2})
	f := store.addFlight(ac.ID, model.FlightCancelled, time.Now().Add(time.Hour), 10000)
	seatIDs := store.addSeats(f.ID, model.ClassEconomy)

	_, err := b.Book(context.Background(), 7, f.ID, seatIDs, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBookForeignSeatFails(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, _ := seedFlightWithSeats(t, store, 2)
	_, otherSeats := seedFlightWithSeats(t, store, 1)

	_, err := b.Book(context.Background(), 7, f.ID, otherSeats, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint32(2), store.flight(f.ID).AvailableSeats)
}

func TestConfirmPending(t *testing.T) {
	store := newMemStore()
	events := &eventRecorder{}
	b := NewBooking(store, events)
	f, seatIDs := seedFlightWithSeats(t, store, 2)
	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], nil)
	require.NoError(t, err)

	require.NoError(t, b.Confirm(context.Background(), res.ID, "pay-456"))

	got := store.reservationByID(res.ID)
	assert.Equal(t, model.ReservationConfirmed, got.Status)
	require.NotNil(t, got.PaymentRef)
	assert.Equal(t, "pay-456", *got.PaymentRef)
	assert.Equal(t, []uint64{res.ID}, events.confirmed)
}

func TestConfirmRequiresPaymentRef(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	err := b.Confirm(context.Background(), 1, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConfirmNonPendingFails(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 2)
	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], strPtr("pay-1"))
	require.NoError(t, err)

	err = b.Confirm(context.Background(), res.ID, "pay-2")
	assert.ErrorIs(t, err, ErrInvalidState)

	// The original payment reference survives the rejected transition.
	got := store.reservationByID(res.ID)
	require.NotNil(t, got.PaymentRef)
	assert.Equal(t, "pay-1", *got.PaymentRef)
}

func TestCancelReleasesSeats(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 3)
	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:2], nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), store.flight(f.ID).AvailableSeats)

	require.NoError(t, b.Cancel(context.Background(), res.ID))

	assert.Equal(t, model.ReservationCancelled, store.reservationByID(res.ID).Status)
	assert.Equal(t, uint32(3), store.flight(f.ID).AvailableSeats)
	for _, id := range seatIDs[:2] {
		assert.True(t, store.seat(id).IsAvailable)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 2)
	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], nil)
	require.NoError(t, err)

	require.NoError(t, b.Cancel(context.Background(), res.ID))
	require.NoError(t, b.Cancel(context.Background(), res.ID))

	// The second cancel must not inflate the counter.
	assert.Equal(t, uint32(2), store.flight(f.ID).AvailableSeats)
}

func TestCancelCompletedFails(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 2)
	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], strPtr("pay-1"))
	require.NoError(t, err)
	require.NoError(t, b.Complete(context.Background(), res.ID))

	err = b.Cancel(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, model.ReservationCompleted, store.reservationByID(res.ID).Status)
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 2)
	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], nil)
	require.NoError(t, err)

	err = b.Complete(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, model.ReservationPending, store.reservationByID(res.ID).Status)
}

func TestModifySwapsSeatsAtomically(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{EconomyRows: 1, BusinessRows: 1, SeatsPerRow: 2})
	f := store.addFlight(ac.ID, model.FlightScheduled, time.Now().Add(24*time.Hour), 10000)
	economy := store.addSeats(f.ID, model.ClassEconomy, model.ClassEconomy)
	business := store.addSeats(f.ID, model.ClassBusiness, model.ClassBusiness)

	res, err := b.Book(context.Background(), 7, f.ID, economy, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(20000), res.TotalPriceCents)

	got, err := b.Modify(context.Background(), res.ID, business)
	require.NoError(t, err)

	// Upgraded to two business seats: re-quoted at 1.5x.
	assert.Equal(t, uint32(30000), got.TotalPriceCents)
	assert.ElementsMatch(t, business, got.SeatIDs)
	for _, id := range economy {
		assert.True(t, store.seat(id).IsAvailable, "old seat %d should be free", id)
	}
	for _, id := range business {
		assert.False(t, store.seat(id).IsAvailable, "new seat %d should be taken", id)
	}
	assert.Equal(t, uint32(2), store.flight(f.ID).AvailableSeats)

	tickets := store.ticketsByReservation(res.ID)
	require.Len(t, tickets, 2)
	for _, tk := range tickets {
		assert.Equal(t, uint32(15000), tk.PriceCents)
	}
}

func TestModifyFailureLeavesOriginalIntact(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 3)

	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], nil)
	require.NoError(t, err)
	rival, err := b.Book(context.Background(), 8, f.ID, seatIDs[1:2], nil)
	require.NoError(t, err)

	// Try to move onto the rival's seat.
	_, err = b.Modify(context.Background(), res.ID, seatIDs[1:2])
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// Both bookings stand exactly as before.
	got := store.reservationByID(res.ID)
	assert.Equal(t, seatIDs[:1], got.SeatIDs)
	assert.Equal(t, uint32(10000), got.TotalPriceCents)
	assert.False(t, store.seat(seatIDs[0]).IsAvailable)
	assert.False(t, store.seat(seatIDs[1]).IsAvailable)
	assert.Equal(t, uint32(1), store.flight(f.ID).AvailableSeats)
	assert.Len(t, store.ticketsByReservation(res.ID), 1)
	assert.Len(t, store.ticketsByReservation(rival.ID), 1)
}

func TestModifyTerminalReservationFails(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 2)
	res, err := b.Book(context.Background(), 7, f.ID, seatIDs[:1], nil)
	require.NoError(t, err)
	require.NoError(t, b.Cancel(context.Background(), res.ID))

	_, err = b.Modify(context.Background(), res.ID, seatIDs[1:])
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBookDedupesSeatIDs(t *testing.T) {
	store := newMemStore()
	b := NewBooking(store, nil)
	f, seatIDs := seedFlightWithSeats(t, store, 2)

	res, err := b.Book(context.Background(), 7, f.ID, []uint64{seatIDs[0], seatIDs[0], 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint64{seatIDs[0]}, res.SeatIDs)
	assert.Equal(t, uint32(1), store.flight(f.ID).AvailableSeats)
}
