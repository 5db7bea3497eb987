package response

import (
	"time"

	"cinema-reservation/internal/data/entity"

	"github.com/shopspring/decimal"
)

type ReservationResponse struct {
	ID               int64           `json:"id"`
	ConfirmationCode string          `json:"confirmation_code"`
	UserID           int64           `json:"user_id"`
	ShowtimeID       int64           `json:"showtime_id"`
	NumberOfSeats    int             `json:"number_of_seats"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	CreatedAt        time.Time       `json:"created_at"`
}

func ReservationToResponse(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:               r.ID,
		ConfirmationCode: r.ConfirmationCode,
		UserID:           r.UserID,
		ShowtimeID:       r.ShowtimeID,
		NumberOfSeats:    r.NumberOfSeats,
		TotalPrice:       r.TotalPrice,
		CreatedAt:        r.CreatedAt,
	}
}

type AvailabilityResponse struct {
	ShowtimeID     int64 `json:"showtime_id"`
	Available      bool  `json:"available"`
	AvailableSeats int   `json:"available_seats"`
}

type CancelReservationResponse struct {
	ConfirmationCode string `json:"confirmation_code"`
	Cancelled        bool   `json:"cancelled"`
}
