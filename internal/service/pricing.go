package service

import (
	"fmt"

	"github.com/skylane/airline-reservation/internal/model"
)

// Fare multipliers per cabin class, in basis points over the flight's base
// price: economy 1.0x, business 1.5x, first 2.5x.  Working in cents and
// basis points keeps the arithmetic exact for any base price that is a
// whole number of cents times 100.
var classBasisPoints = map[model.SeatClass]uint64{
	model.ClassEconomy:  100,
	model.ClassBusiness: 150,
	model.ClassFirst:    250,
}

// SeatPriceCents returns the fare for a single seat of the given class on a
// flight with the given base price.
func SeatPriceCents(basePriceCents uint32, class model.SeatClass) (uint32, error) {
	bp, ok := classBasisPoints[class]
	if !ok {
		return 0, fmt.Errorf("%w: unknown seat class %q", ErrValidation, class)
	}
	return uint32(uint64(basePriceCents) * bp / 100), nil
}

// Quote totals the fare for a set of seats on one flight.  It is pure and
// deterministic; the booking flow calls it exactly once, at creation time,
// and stores the result on the reservation.  The stored total stays
// authoritative even if the flight's base price changes later.
func Quote(basePriceCents uint32, seats []model.Seat) (uint32, error) {
	if len(seats) == 0 {
		return 0, fmt.Errorf("%w: empty seat list", ErrValidation)
	}
	var total uint64
	for _, s := range seats {
		p, err := SeatPriceCents(basePriceCents, s.Class)
		if err != nil {
			return 0, err
		}
		total += uint64(p)
	}
	if total > 1<<32-1 {
		return 0, fmt.Errorf("%w: total overflows", ErrValidation)
	}
	return uint32(total), nil
}

// ApplyDiscount reduces a total by percent, which must lie in [0,100].
// Values outside the range are a validation error, not a clamp.
func ApplyDiscount(totalCents uint32, percent float64) (uint32, error) {
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("%w: discount percent %v out of range [0,100]", ErrValidation, percent)
	}
	discounted := float64(totalCents) * (1 - percent/100)
	return uint32(discounted + 0.5), nil
}
