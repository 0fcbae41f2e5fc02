// Package service implements the booking and inventory consistency engine:
// pricing, seat inventory accounting, the reservation state machine, the
// aircraft status cascade and cascading deletion.  All multi-step mutations
// run inside a single unit of work obtained from a Store; partial
// application is never observable.
package service

import "errors"

// Sentinel errors returned by the engine.  Handlers distinguish failure
// classes with errors.Is; the wrapped message carries the detail.
var (
	// ErrValidation marks malformed input: empty seat list, bad status
	// value, discount outside [0,100].  Nothing was persisted.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown flight, seat, reservation or aircraft
	// id.  Nothing was mutated.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientInventory is returned when a booking asks for seats
	// that are already taken or exceed the flight's remaining counter.
	// No seat was claimed.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrInvalidState marks a forbidden state-machine transition, such as
	// confirming a non-pending reservation.
	ErrInvalidState = errors.New("invalid state")

	// ErrIntegrity marks a consistency violation detected mid-operation,
	// e.g. a seat release that would push the availability counter past
	// the flight's physical seat total.  The unit of work was rolled
	// back in full.
	ErrIntegrity = errors.New("integrity violation")
)
