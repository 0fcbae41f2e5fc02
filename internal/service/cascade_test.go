package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/airline-reservation/internal/model"
)

func TestCascadedStatusTable(t *testing.T) {
	cases := []struct {
		aircraft model.AircraftStatus
		flight   model.FlightStatus
		want     model.FlightStatus
		applies  bool
	}{
		{model.AircraftActive, model.FlightDelayed, model.FlightScheduled, true},
		{model.AircraftActive, model.FlightCancelled, model.FlightScheduled, true},
		{model.AircraftActive, model.FlightScheduled, model.FlightScheduled, false},
		{model.AircraftActive, model.FlightCompleted, model.FlightCompleted, false},

		{model.AircraftMaintenance, model.FlightScheduled, model.FlightDelayed, true},
		{model.AircraftMaintenance, model.FlightCancelled, model.FlightDelayed, true},
		{model.AircraftMaintenance, model.FlightDelayed, model.FlightDelayed, false},
		{model.AircraftMaintenance, model.FlightCompleted, model.FlightCompleted, false},

		{model.AircraftInactive, model.FlightScheduled, model.FlightCancelled, true},
		{model.AircraftInactive, model.FlightDelayed, model.FlightCancelled, true},
		{model.AircraftInactive, model.FlightCancelled, model.FlightCancelled, false},
		{model.AircraftInactive, model.FlightCompleted, model.FlightCompleted, false},
	}
	for _, tc := range cases {
		got, ok := CascadedStatus(tc.aircraft, tc.flight)
		assert.Equal(t, tc.applies, ok, "%s/%s", tc.aircraft, tc.flight)
		assert.Equal(t, tc.want, got, "%s/%s", tc.aircraft, tc.flight)
	}
}

func TestUpdateAircraftStatusCascades(t *testing.T) {
	store := newMemStore()
	events := &eventRecorder{}
	c := NewCascade(store, events)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{EconomyRows: 1, SeatsPerRow: 2})

	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)
	scheduled := store.addFlight(ac.ID, model.FlightScheduled, future, 10000)
	delayed := store.addFlight(ac.ID, model.FlightDelayed, future, 10000)
	alreadyCancelled := store.addFlight(ac.ID, model.FlightCancelled, future, 10000)
	departed := store.addFlight(ac.ID, model.FlightScheduled, past, 10000)

	require.NoError(t, c.UpdateAircraftStatus(context.Background(), ac.ID, model.AircraftInactive))

	assert.Equal(t, model.AircraftInactive, store.aircraftByID(ac.ID).Status)
	assert.Equal(t, model.FlightCancelled, store.flight(scheduled.ID).Status)
	assert.Equal(t, model.FlightCancelled, store.flight(delayed.ID).Status)
	assert.Equal(t, model.FlightCancelled, store.flight(alreadyCancelled.ID).Status)
	assert.Equal(t, model.FlightScheduled, store.flight(departed.ID).Status, "departed flights keep their status")

	// One event per re-statused flight; the already-cancelled one did not
	// change and publishes nothing.
	assert.ElementsMatch(t, []string{
		"2:SCHEDULED->CANCELLED",
		"3:DELAYED->CANCELLED",
	}, events.cascades)
}

func TestUpdateAircraftStatusBackToActive(t *testing.T) {
	store := newMemStore()
	c := NewCascade(store, nil)
	ac := store.addAircraft(model.AircraftInactive, model.SeatLayout{EconomyRows: 1, SeatsPerRow: 2})
	future := time.Now().Add(48 * time.Hour)
	cancelled := store.addFlight(ac.ID, model.FlightCancelled, future, 10000)
	delayed := store.addFlight(ac.ID, model.FlightDelayed, future, 10000)

	require.NoError(t, c.UpdateAircraftStatus(context.Background(), ac.ID, model.AircraftActive))

	assert.Equal(t, model.FlightScheduled, store.flight(cancelled.ID).Status)
	assert.Equal(t, model.FlightScheduled, store.flight(delayed.ID).Status)
}

func TestUpdateAircraftStatusSameStatusIsNoop(t *testing.T) {
	store := newMemStore()
	events := &eventRecorder{}
	c := NewCascade(store, events)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{EconomyRows: 1, SeatsPerRow: 2})
	f := store.addFlight(ac.ID, model.FlightDelayed, time.Now().Add(time.Hour), 10000)

	require.NoError(t, c.UpdateAircraftStatus(context.Background(), ac.ID, model.AircraftActive))

	// A repeat of the current status must not touch flights.
	assert.Equal(t, model.FlightDelayed, store.flight(f.ID).Status)
	assert.Empty(t, events.cascades)
}

func TestUpdateAircraftStatusUnknownStatus(t *testing.T) {
	store := newMemStore()
	c := NewCascade(store, nil)
	err := c.UpdateAircraftStatus(context.Background(), 1, model.AircraftStatus("SCRAPPED"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAircraftStatusUnknownAircraft(t *testing.T) {
	store := newMemStore()
	c := NewCascade(store, nil)
	err := c.UpdateAircraftStatus(context.Background(), 99, model.AircraftInactive)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCascadeFailureRollsBackEverything(t *testing.T) {
	store := newMemStore()
	events := &eventRecorder{}
	c := NewCascade(store, events)
	ac := store.addAircraft(model.AircraftActive, model.SeatLayout{EconomyRows: 1, SeatsPerRow: 2})
	future := time.Now().Add(48 * time.Hour)
	a := store.addFlight(ac.ID, model.FlightScheduled, future, 10000)
	b := store.addFlight(ac.ID, model.FlightScheduled, future, 10000)

	store.failFlightStatusFor[b.ID] = true

	err := c.UpdateAircraftStatus(context.Background(), ac.ID, model.AircraftInactive)
	require.Error(t, err)

	// No partial cascade: the aircraft and every flight keep their
	// original status, and nothing was published.
	assert.Equal(t, model.AircraftActive, store.aircraftByID(ac.ID).Status)
	assert.Equal(t, model.FlightScheduled, store.flight(a.ID).Status)
	assert.Equal(t, model.FlightScheduled, store.flight(b.ID).Status)
	assert.Empty(t, events.cascades)
}
