// Package inventory derives free seats from a showtime's counters.
package inventory

import (
	"context"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/pkg/apperror"
)

// Available returns total - booked after checking both counters are sane.
// Broken counters are reported, never clamped.
func Available(total, booked int) (int, error) {
	switch {
	case total < 0:
		return 0, &apperror.DataIntegrityError{Reason: "total seats is negative", Total: total, Booked: booked}
	case booked < 0:
		return 0, &apperror.DataIntegrityError{Reason: "booked seats is negative", Total: total, Booked: booked}
	case booked > total:
		return 0, &apperror.DataIntegrityError{Reason: "booked seats exceed total seats", Total: total, Booked: booked}
	}
	return total - booked, nil
}

// OfShowtime is Available applied to a loaded showtime.
func OfShowtime(s *entity.Showtime) (int, error) {
	return Available(s.TotalSeats, s.BookedSeats)
}

type ShowtimeFinder interface {
	FindByID(ctx context.Context, id int64) (*entity.Showtime, error)
}

// Calculator answers availability by showtime id.
type Calculator struct {
	showtimes ShowtimeFinder
}

func NewCalculator(showtimes ShowtimeFinder) *Calculator {
	return &Calculator{showtimes: showtimes}
}

// Seats is a validated reading of one showtime's counters.
type Seats struct {
	Total     int
	Booked    int
	Available int
}

// SeatsByID loads the showtime and checks its counters.
func (c *Calculator) SeatsByID(ctx context.Context, showtimeID int64) (Seats, error) {
	showtime, err := c.showtimes.FindByID(ctx, showtimeID)
	if err != nil {
		return Seats{}, err
	}
	if showtime == nil {
		return Seats{}, apperror.NewNotFound("Showtime", showtimeID)
	}

	available, err := OfShowtime(showtime)
	if err != nil {
		return Seats{}, err
	}
	return Seats{Total: showtime.TotalSeats, Booked: showtime.BookedSeats, Available: available}, nil
}
