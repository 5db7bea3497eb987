package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/internal/inventory"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

type ShowtimeService interface {
	GetShowtimes(ctx context.Context, movieID *int64) ([]response.ShowtimeResponse, error)
	GetShowtimeByID(ctx context.Context, id int64) (*response.ShowtimeResponse, error)
	CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
}

type showtimeService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "showtime")),
	}
}

// GetShowtimes lists upcoming showtimes, optionally for a single movie.
func (s *showtimeService) GetShowtimes(ctx context.Context, movieID *int64) ([]response.ShowtimeResponse, error) {
	showtimes, err := s.repo.Showtime.FindUpcoming(ctx, movieID, s.now())
	if err != nil {
		return nil, fmt.Errorf("get showtimes: %w", err)
	}

	items := make([]response.ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		items[i] = response.ShowtimeToResponse(st)
	}
	return items, nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, id int64) (*response.ShowtimeResponse, error) {
	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, apperror.NewNotFound("Showtime", id)
	}

	available, err := inventory.OfShowtime(showtime)
	if err != nil {
		s.log.Error("Showtime counters are inconsistent", zap.Error(err), zap.Int64("showtime_id", id))
		return nil, err
	}

	resp := response.ShowtimeToDetailResponse(showtime, available)
	return &resp, nil
}

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.NewFieldValidation(errs)
	}

	fields := map[string]string{}
	if req.Price.IsNegative() {
		fields["price"] = "Must not be negative"
	}
	if !req.StartTime.After(s.now()) {
		fields["start_time"] = "Must be in the future"
	}
	if len(fields) > 0 {
		return nil, apperror.NewFieldValidation(fields)
	}

	movie, err := s.repo.Movie.FindByID(ctx, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NewNotFound("Movie", req.MovieID)
	}

	theater, err := s.repo.Theater.FindByID(ctx, req.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("get theater: %w", err)
	}
	if theater == nil {
		return nil, apperror.NewNotFound("Theater", req.TheaterID)
	}

	totalSeats := theater.Capacity
	if req.TotalSeats != nil {
		if *req.TotalSeats > theater.Capacity {
			return nil, apperror.NewFieldValidation(map[string]string{
				"total_seats": fmt.Sprintf("Must not exceed theater capacity %d", theater.Capacity),
			})
		}
		totalSeats = *req.TotalSeats
	}

	showtime := &entity.Showtime{
		MovieID:    movie.ID,
		TheaterID:  theater.ID,
		StartTime:  req.StartTime.UTC(),
		Price:      req.Price,
		TotalSeats: totalSeats,
	}
	if err := s.repo.Showtime.Create(ctx, showtime); err != nil {
		return nil, fmt.Errorf("create showtime: %w", err)
	}

	s.log.Info("Showtime created",
		zap.Int64("showtime_id", showtime.ID),
		zap.Int64("movie_id", movie.ID),
		zap.Int("total_seats", totalSeats),
	)

	resp := response.ShowtimeToDetailResponse(showtime, totalSeats)
	return &resp, nil
}
