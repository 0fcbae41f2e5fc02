package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/airline-reservation/internal/model"
)

func TestGenerateSeats(t *testing.T) {
	layout := model.SeatLayout{FirstRows: 1, BusinessRows: 1, EconomyRows: 2, SeatsPerRow: 2}
	seats := GenerateSeats(9, layout)
	require.Len(t, seats, 8)

	// Row 1 is first class, row 2 business, rows 3-4 economy.
	assert.Equal(t, "1A", seats[0].SeatNumber)
	assert.Equal(t, model.ClassFirst, seats[0].Class)
	assert.Equal(t, "1B", seats[1].SeatNumber)
	assert.Equal(t, "2A", seats[2].SeatNumber)
	assert.Equal(t, model.ClassBusiness, seats[2].Class)
	assert.Equal(t, "3A", seats[4].SeatNumber)
	assert.Equal(t, model.ClassEconomy, seats[4].Class)
	assert.Equal(t, "4B", seats[7].SeatNumber)

	for _, s := range seats {
		assert.Equal(t, uint64(9), s.FlightID)
		assert.True(t, s.IsAvailable)
	}
}

func TestCreateFlightGeneratesSeats(t *testing.T) {
	store := newMemStore()
	svc := NewFlights(store)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{BusinessRows: 1, EconomyRows: 2, SeatsPerRow: 3})

	departs := time.Now().Add(72 * time.Hour).UTC()
	f, err := svc.Create(context.Background(), CreateFlightInput{
		FlightNumber:   "SK100",
		AircraftID:     ac.ID,
		RouteID:        1,
		DepartsAt:      departs,
		ArrivesAt:      departs.Add(90 * time.Minute),
		BasePriceCents: 12000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.FlightScheduled, f.Status)
	assert.Equal(t, uint32(9), f.SeatTotal)
	assert.Equal(t, uint32(9), f.AvailableSeats)
	assert.Equal(t, 9, store.countSeats(f.ID))
}

func TestCreateFlightValidation(t *testing.T) {
	store := newMemStore()
	svc := NewFlights(store)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{EconomyRows: 1, SeatsPerRow: 2})
	departs := time.Now().Add(time.Hour)

	cases := []struct {
		name string
		in   CreateFlightInput
	}{
		{"missing flight number", CreateFlightInput{AircraftID: ac.ID, DepartsAt: departs, ArrivesAt: departs.Add(time.Hour), BasePriceCents: 100}},
		{"arrival before departure", CreateFlightInput{FlightNumber: "SK1", AircraftID: ac.ID, DepartsAt: departs, ArrivesAt: departs.Add(-time.Hour), BasePriceCents: 100}},
		{"zero base price", CreateFlightInput{FlightNumber: "SK1", AircraftID: ac.ID, DepartsAt: departs, ArrivesAt: departs.Add(time.Hour)}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.in)
		assert.ErrorIs(t, err, ErrValidation, tc.name)
	}
}

func TestCreateFlightEmptyLayout(t *testing.T) {
	store := newMemStore()
	svc := NewFlights(store)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{})
	departs := time.Now().Add(time.Hour)

	_, err := svc.Create(context.Background(), CreateFlightInput{
		FlightNumber:   "SK1",
		AircraftID:     ac.ID,
		DepartsAt:      departs,
		ArrivesAt:      departs.Add(time.Hour),
		BasePriceCents: 100,
	})
	assert.ErrorIs(t, err, ErrValidation)
}
