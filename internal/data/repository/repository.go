package repository

import (
	"errors"

	"cinema-reservation/pkg/database"

	"go.uber.org/zap"
)

// ErrNoRowsAffected is returned by writes whose WHERE clause matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Movie       MovieRepository
	Theater     TheaterRepository
	Showtime    ShowtimeRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Movie:       NewMovieRepository(db, log),
		Theater:     NewTheaterRepository(db, log),
		Showtime:    NewShowtimeRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
