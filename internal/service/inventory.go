package service

import (
	"context"
	"fmt"
)

// Inventory enforces the per-flight seat accounting rule: seats claimed
// never exceed seats that exist and are free, and the flight's
// available-seat counter always equals the number of available seat rows.
//
// Both operations run against an already-open unit of work so that callers
// (the booking flow, the deletion coordinator) can compose them with their
// own writes; either everything in the unit of work commits or nothing
// does.
type Inventory struct{}

// Reserve claims the given seats on a flight: every seat flips to
// unavailable and the flight counter drops by len(seatIDs), as one atomic
// unit.  It fails with ErrInsufficientInventory if any seat is already
// taken or the counter is short, in which case the caller's rollback
// leaves all seats untouched.
//
// The counter decrement is a single conditional update, so the "enough
// seats remain" check and the decrement cannot be interleaved by a
// concurrent booking.
func (Inventory) Reserve(ctx context.Context, tx Tx, flightID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: no seats to reserve", ErrValidation)
	}
	n := uint32(len(seatIDs))

	ok, err := tx.Flights().TakeSeats(ctx, flightID, n)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: flight %d has fewer than %d seats left", ErrInsufficientInventory, flightID, n)
	}

	flipped, err := tx.Seats().MarkUnavailable(ctx, flightID, seatIDs)
	if err != nil {
		return err
	}
	if flipped != int64(n) {
		// At least one requested seat was already unavailable (or does
		// not belong to the flight).  The counter decrement above is
		// undone by the caller's rollback.
		return fmt.Errorf("%w: %d of %d requested seats are not free on flight %d",
			ErrInsufficientInventory, int64(n)-flipped, n, flightID)
	}
	return nil
}

// Release returns seats to the pool.  It is idempotent: seats that are
// already available are skipped silently, and the counter grows only by
// the number of seats actually flipped.  If growing the counter would push
// it past the flight's physical seat total the data is corrupt, and
// Release fails with ErrIntegrity rather than clamping.
func (Inventory) Release(ctx context.Context, tx Tx, flightID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	flipped, err := tx.Seats().MarkAvailable(ctx, flightID, seatIDs)
	if err != nil {
		return err
	}
	if flipped == 0 {
		return nil
	}
	ok, err := tx.Flights().ReturnSeats(ctx, flightID, uint32(flipped))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: releasing %d seats would exceed the seat total of flight %d",
			ErrIntegrity, flipped, flightID)
	}
	return nil
}
