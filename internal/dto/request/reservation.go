package request

type CreateReservationRequest struct {
	ShowtimeID    int64 `json:"showtime_id" validate:"required,gt=0"`
	NumberOfSeats int   `json:"number_of_seats" validate:"gt=0"`
}

type CheckAvailabilityRequest struct {
	ShowtimeID    int64 `json:"showtime_id" validate:"required,gt=0"`
	NumberOfSeats int   `json:"number_of_seats" validate:"gt=0"`
}
