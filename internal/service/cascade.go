package service

import (
	"context"
	"fmt"
	"time"

	"github.com/skylane/airline-reservation/internal/model"
)

// CascadedStatus is the pure decision table mapping an aircraft's new
// status onto the status a dependent flight should take:
//
//	-> ACTIVE        DELAYED, CANCELLED   => SCHEDULED
//	-> MAINTENANCE   SCHEDULED, CANCELLED => DELAYED
//	-> INACTIVE      SCHEDULED, DELAYED   => CANCELLED
//
// The second return is false when the flight's current status does not
// match the table and the flight must be left untouched.
func CascadedStatus(aircraft model.AircraftStatus, flight model.FlightStatus) (model.FlightStatus, bool) {
	switch aircraft {
	case model.AircraftActive:
		if flight == model.FlightDelayed || flight == model.FlightCancelled {
			return model.FlightScheduled, true
		}
	case model.AircraftMaintenance:
		if flight == model.FlightScheduled || flight == model.FlightCancelled {
			return model.FlightDelayed, true
		}
	case model.AircraftInactive:
		if flight == model.FlightScheduled || flight == model.FlightDelayed {
			return model.FlightCancelled, true
		}
	}
	return flight, false
}

// Cascade applies aircraft status changes and their effect on dependent
// flights.
type Cascade struct {
	store  Store
	events Events // may be nil
	now    func() time.Time
}

// NewCascade constructs the cascade service.  events may be nil.
func NewCascade(store Store, events Events) *Cascade {
	if store == nil {
		panic("nil store passed to NewCascade")
	}
	return &Cascade{store: store, events: events, now: time.Now}
}

// flightChange records one applied cascade step for post-commit events.
type flightChange struct {
	flightID uint64
	from, to model.FlightStatus
}

// UpdateAircraftStatus sets the aircraft's status and re-statuses every
// affected flight whose departure is still in the future, all inside one
// unit of work.  A failure on any flight rolls back the aircraft update
// and every flight change; there is no partial cascade.  Flights already
// departed, and future flights whose status is not in the decision table,
// are left untouched.
func (c *Cascade) UpdateAircraftStatus(ctx context.Context, aircraftID uint64, status model.AircraftStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown aircraft status %q", ErrValidation, status)
	}
	var changes []flightChange
	err := c.store.WithinTx(ctx, func(tx Tx) error {
		ac, err := tx.Aircraft().ByID(ctx, aircraftID)
		if err != nil {
			return err
		}
		if ac.Status == status {
			return nil // idempotent repeat
		}
		if err := tx.Aircraft().UpdateStatus(ctx, aircraftID, status); err != nil {
			return err
		}
		flights, err := tx.Flights().ByAircraft(ctx, aircraftID)
		if err != nil {
			return err
		}
		now := c.now().UTC()
		for _, f := range flights {
			if !f.DepartsAt.After(now) {
				continue
			}
			next, ok := CascadedStatus(status, f.Status)
			if !ok {
				continue
			}
			if err := tx.Flights().UpdateStatus(ctx, f.ID, next); err != nil {
				return err
			}
			changes = append(changes, flightChange{flightID: f.ID, from: f.Status, to: next})
		}
		return nil
	})
	if err != nil {
		return err
	}
	if c.events != nil {
		for _, ch := range changes {
			c.events.FlightStatusChanged(ctx, ch.flightID, ch.from, ch.to)
		}
	}
	return nil
}
