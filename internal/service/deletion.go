package service

import (
	"context"
)

// Deletion coordinates cascading deletes.  Foreign keys point from tickets
// to reservations and seats, from those to flights, and from flights to
// aircraft, so deletion always walks leaf to root:
//
//	tickets -> reservations -> seats -> flight -> (aircraft)
//
// Every delete runs inside one unit of work; a failure on any step leaves
// the flight or aircraft and all of its dependents exactly as they were.
type Deletion struct {
	store Store
}

// NewDeletion constructs the deletion coordinator.
func NewDeletion(store Store) *Deletion {
	if store == nil {
		panic("nil store passed to NewDeletion")
	}
	return &Deletion{store: store}
}

// DeleteFlight removes a flight and everything hanging off it.
func (d *Deletion) DeleteFlight(ctx context.Context, flightID uint64) error {
	return d.store.WithinTx(ctx, func(tx Tx) error {
		return deleteFlightTx(ctx, tx, flightID)
	})
}

// DeleteAircraft removes an aircraft after tearing down each of its
// flights with the full flight sequence.  All flights and the aircraft go
// in the same unit of work.
func (d *Deletion) DeleteAircraft(ctx context.Context, aircraftID uint64) error {
	return d.store.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.Aircraft().ByID(ctx, aircraftID); err != nil {
			return err
		}
		flights, err := tx.Flights().ByAircraft(ctx, aircraftID)
		if err != nil {
			return err
		}
		for _, f := range flights {
			if err := deleteFlightTx(ctx, tx, f.ID); err != nil {
				return err
			}
		}
		return tx.Aircraft().Delete(ctx, aircraftID)
	})
}

// deleteFlightTx performs the leaf-to-root teardown of one flight inside
// an already-open unit of work.
func deleteFlightTx(ctx context.Context, tx Tx, flightID uint64) error {
	if _, err := tx.Flights().ByID(ctx, flightID); err != nil {
		return err
	}
	if _, err := tx.Tickets().DeleteByFlight(ctx, flightID); err != nil {
		return err
	}
	if _, err := tx.Reservations().DeleteByFlight(ctx, flightID); err != nil {
		return err
	}
	if _, err := tx.Seats().DeleteByFlight(ctx, flightID); err != nil {
		return err
	}
	return tx.Flights().Delete(ctx, flightID)
}
