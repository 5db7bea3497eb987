package response

import (
	"time"

	"cinema-reservation/internal/data/entity"

	"github.com/shopspring/decimal"
)

type ShowtimeResponse struct {
	ID             int64           `json:"id"`
	MovieID        int64           `json:"movie_id"`
	TheaterID      int64           `json:"theater_id"`
	StartTime      time.Time       `json:"start_time"`
	Price          decimal.Decimal `json:"price"`
	TotalSeats     int             `json:"total_seats"`
	BookedSeats    int             `json:"booked_seats"`
	AvailableSeats *int            `json:"available_seats,omitempty"`
}

func ShowtimeToResponse(s *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:          s.ID,
		MovieID:     s.MovieID,
		TheaterID:   s.TheaterID,
		StartTime:   s.StartTime,
		Price:       s.Price,
		TotalSeats:  s.TotalSeats,
		BookedSeats: s.BookedSeats,
	}
}

func ShowtimeToDetailResponse(s *entity.Showtime, available int) ShowtimeResponse {
	resp := ShowtimeToResponse(s)
	resp.AvailableSeats = &available
	return resp
}
