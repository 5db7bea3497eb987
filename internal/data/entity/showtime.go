package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Showtime is one screening. BookedSeats is written only by the reservation
// lifecycle and always satisfies 0 <= BookedSeats <= TotalSeats.
type Showtime struct {
	BaseNoDelete
	MovieID     int64           `db:"movie_id"`
	TheaterID   int64           `db:"theater_id"`
	StartTime   time.Time       `db:"start_time"`
	Price       decimal.Decimal `db:"price"`
	TotalSeats  int             `db:"total_seats"`
	BookedSeats int             `db:"booked_seats"`
}
