package usecase

import (
	"cinema-reservation/internal/data/cache"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/event"
	"cinema-reservation/pkg/database"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Movie       MovieService
	Theater     TheaterService
	Showtime    ShowtimeService
	Reservation ReservationService
}

func NewService(
	repo *repository.Repository,
	tx database.Transactor,
	availability cache.AvailabilityCache,
	events event.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		User:     NewUserService(repo.User, repo.Session, log),
		Movie:    NewMovieService(repo, log),
		Theater:  NewTheaterService(repo.Theater, log),
		Showtime: NewShowtimeService(repo, log),
		Reservation: NewReservationService(ReservationDeps{
			Showtimes:    repo.Showtime,
			Reservations: repo.Reservation,
			Tx:           tx,
			Cache:        availability,
			Events:       events,
			Codes:        utils.NewCodeGenerator(config.Reservation.CodeMaxAttempts),
			MaxSeats:     config.Reservation.MaxSeatsPerBooking,
		}, log),
	}
}
