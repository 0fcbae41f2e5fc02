package service

import (
	"context"
	"fmt"
	"time"

	"github.com/skylane/airline-reservation/internal/model"
)

// Flights handles flight creation.  Creating a flight is the only moment
// seats come into existence: the aircraft's seat layout is expanded into
// one seat row per physical seat, all available, and the flight's counter
// and physical total are fixed to the layout size.
type Flights struct {
	store Store
}

// NewFlights constructs the flight service.
func NewFlights(store Store) *Flights {
	if store == nil {
		panic("nil store passed to NewFlights")
	}
	return &Flights{store: store}
}

// CreateFlightInput carries the caller-supplied fields of a new flight.
type CreateFlightInput struct {
	FlightNumber   string
	AircraftID     uint64
	RouteID        uint64
	DepartsAt      time.Time
	ArrivesAt      time.Time
	BasePriceCents uint32
}

// Create persists a new flight and generates its seats from the aircraft
// layout, in one unit of work.
func (s *Flights) Create(ctx context.Context, in CreateFlightInput) (*model.Flight, error) {
	if in.FlightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", ErrValidation)
	}
	if !in.ArrivesAt.After(in.DepartsAt) {
		return nil, fmt.Errorf("%w: arrival must be after departure", ErrValidation)
	}
	if in.BasePriceCents == 0 {
		return nil, fmt.Errorf("%w: base price is required", ErrValidation)
	}

	var flight *model.Flight
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		ac, err := tx.Aircraft().ByID(ctx, in.AircraftID)
		if err != nil {
			return err
		}
		total := ac.Layout.TotalSeats()
		if total == 0 {
			return fmt.Errorf("%w: aircraft %s has an empty seat layout", ErrValidation, ac.TailNumber)
		}
		f := &model.Flight{
			FlightNumber:   in.FlightNumber,
			AircraftID:     in.AircraftID,
			RouteID:        in.RouteID,
			DepartsAt:      in.DepartsAt.UTC(),
			ArrivesAt:      in.ArrivesAt.UTC(),
			Status:         model.FlightScheduled,
			SeatTotal:      total,
			AvailableSeats: total,
			BasePriceCents: in.BasePriceCents,
		}
		if err := tx.Flights().Create(ctx, f); err != nil {
			return err
		}
		if err := tx.Seats().CreateBulk(ctx, GenerateSeats(f.ID, ac.Layout)); err != nil {
			return err
		}
		flight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flight, nil
}

// GenerateSeats expands a seat layout into concrete seat rows for a
// flight.  Rows are numbered from 1: first class first, then business,
// then economy; letters run A, B, C, ... across each row.  Every seat
// starts available.
func GenerateSeats(flightID uint64, layout model.SeatLayout) []model.Seat {
	seats := make([]model.Seat, 0, layout.TotalSeats())
	row := uint32(1)
	addRows := func(count uint32, class model.SeatClass) {
		for i := uint32(0); i < count; i++ {
			for col := uint32(0); col < layout.SeatsPerRow; col++ {
				seats = append(seats, model.Seat{
					FlightID:    flightID,
					SeatNumber:  fmt.Sprintf("%d%c", row, 'A'+col),
					Class:       class,
					IsAvailable: true,
				})
			}
			row++
		}
	}
	addRows(layout.FirstRows, model.ClassFirst)
	addRows(layout.BusinessRows, model.ClassBusiness)
	addRows(layout.EconomyRows, model.ClassEconomy)
	return seats
}
