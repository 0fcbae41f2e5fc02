package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/airline-reservation/internal/model"
)

func seedFlightWithSeats(t *testing.T, store *memStore, n int) (*model.Flight, []uint64) {
	t.Helper()
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{EconomyRows: 1, SeatsPerRow: uint32(n)})
	f := store.addFlight(ac.ID, model.FlightScheduled, time.Now().Add(24*time.Hour), 10000)
	classes := make([]model.SeatClass, n)
	for i := range classes {
		classes[i] = model.ClassEconomy
	}
	return f, store.addSeats(f.ID, classes...)
}

func reserve(store *memStore, flightID uint64, seatIDs []uint64) error {
	var inv Inventory
	return store.WithinTx(context.Background(), func(tx Tx) error {
		return inv.Reserve(context.Background(), tx, flightID, seatIDs)
	})
}

func release(store *memStore, flightID uint64, seatIDs []uint64) error {
	var inv Inventory
	return store.WithinTx(context.Background(), func(tx Tx) error {
		return inv.Release(context.Background(), tx, flightID, seatIDs)
	})
}

func TestReserveExactFit(t *testing.T) {
	store := newMemStore()
	f, seatIDs := seedFlightWithSeats(t, store, 3)

	require.NoError(t, reserve(store, f.ID, seatIDs))

	assert.Equal(t, uint32(0), store.flight(f.ID).AvailableSeats)
	for _, id := range seatIDs {
		assert.False(t, store.seat(id).IsAvailable, "seat %d should be taken", id)
	}
}

func TestReserveOversellFails(t *testing.T) {
	store := newMemStore()
	f, seatIDs := seedFlightWithSeats(t, store, 3)
	_, otherSeats := seedFlightWithSeats(t, store, 1)

	// Four seat IDs against a flight with three available seats.
	err := reserve(store, f.ID, append(append([]uint64{}, seatIDs...), otherSeats[0]))
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// Nothing moved.
	assert.Equal(t, uint32(3), store.flight(f.ID).AvailableSeats)
	for _, id := range seatIDs {
		assert.True(t, store.seat(id).IsAvailable)
	}
}

func TestReservePartiallyUnavailableRollsBack(t *testing.T) {
	store := newMemStore()
	f, seatIDs := seedFlightWithSeats(t, store, 3)

	require.NoError(t, reserve(store, f.ID, seatIDs[:1]))

	// Second booking wants a free seat plus the taken one.
	err := reserve(store, f.ID, []uint64{seatIDs[1], seatIDs[0]})
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// The counter decrement from the failed attempt was rolled back and
	// the free seat stayed free.
	assert.Equal(t, uint32(2), store.flight(f.ID).AvailableSeats)
	assert.True(t, store.seat(seatIDs[1]).IsAvailable)
	assert.False(t, store.seat(seatIDs[0]).IsAvailable)
}

func TestReleaseIsIdempotent(t *testing.T) {
	store := newMemStore()
	f, seatIDs := seedFlightWithSeats(t, store, 3)
	require.NoError(t, reserve(store, f.ID, seatIDs))

	require.NoError(t, release(store, f.ID, seatIDs))
	assert.Equal(t, uint32(3), store.flight(f.ID).AvailableSeats)

	// Releasing again flips nothing and must not inflate the counter.
	require.NoError(t, release(store, f.ID, seatIDs))
	assert.Equal(t, uint32(3), store.flight(f.ID).AvailableSeats)
}

func TestReleaseEmptyListIsNoop(t *testing.T) {
	store := newMemStore()
	f, _ := seedFlightWithSeats(t, store, 2)
	require.NoError(t, release(store, f.ID, nil))
	assert.Equal(t, uint32(2), store.flight(f.ID).AvailableSeats)
}

func TestReleaseCounterOverTotalIsIntegrityError(t *testing.T) {
	store := newMemStore()
	f, seatIDs := seedFlightWithSeats(t, store, 3)

	// Corrupt the books: a seat is marked taken while the counter still
	// shows every seat free.
	require.NoError(t, store.WithinTx(context.Background(), func(tx Tx) error {
		_, err := tx.Seats().MarkUnavailable(context.Background(), f.ID, seatIDs[:1])
		return err
	}))

	err := release(store, f.ID, seatIDs[:1])
	assert.ErrorIs(t, err, ErrIntegrity)

	// The failed release must not have moved the counter.
	assert.Equal(t, uint32(3), store.flight(f.ID).AvailableSeats)
}

func TestReserveEmptyListIsValidationError(t *testing.T) {
	store := newMemStore()
	f, _ := seedFlightWithSeats(t, store, 1)
	err := reserve(store, f.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)
}
