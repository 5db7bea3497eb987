package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShowtimeRequest struct {
	MovieID   int64           `json:"movie_id" validate:"required,gt=0"`
	TheaterID int64           `json:"theater_id" validate:"required,gt=0"`
	StartTime time.Time       `json:"start_time" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	// TotalSeats defaults to the theater capacity when omitted
	TotalSeats *int `json:"total_seats,omitempty" validate:"omitempty,min=1"`
}
