package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Reservation struct {
	ID               int64           `db:"id"`
	UserID           int64           `db:"user_id"`
	ShowtimeID       int64           `db:"showtime_id"`
	NumberOfSeats    int             `db:"number_of_seats"`
	TotalPrice       decimal.Decimal `db:"total_price"`
	ConfirmationCode string          `db:"confirmation_code"`
	CreatedAt        time.Time       `db:"created_at"`
}
