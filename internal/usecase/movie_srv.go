package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type MovieService interface {
	GetMovies(ctx context.Context, req request.PaginatedRequest, genre *string) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID int64) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID int64) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req request.PaginatedRequest, genre *string) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Movie.FindAll(ctx, req.Offset(), req.Limit(), genre)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	// total for pagination metadata
	total, err := s.repo.Movie.CountAll(ctx, genre)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	items := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		items[i] = response.MovieToResponse(movie)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID int64) (*response.MovieResponse, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NewNotFound("Movie", movieID)
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.NewFieldValidation(errs)
	}

	releaseDate, err := time.Parse(dateLayout, req.ReleaseDate)
	if err != nil {
		return nil, apperror.NewFieldValidation(map[string]string{"release_date": "Must match layout " + dateLayout})
	}

	movie := &entity.Movie{
		Title:             req.Title,
		PosterURL:         req.PosterURL,
		DurationInMinutes: req.DurationInMinutes,
		ReleaseDate:       releaseDate,
		Genre:             req.Genre,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created", zap.Int64("movie_id", movie.ID), zap.String("title", movie.Title))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.NewFieldValidation(errs)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NewNotFound("Movie", movieID)
	}

	// partial update, hanya field yang dikirim
	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
	}
	if req.DurationInMinutes != nil {
		movie.DurationInMinutes = *req.DurationInMinutes
	}
	if req.Genre != nil {
		movie.Genre = *req.Genre
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse(dateLayout, *req.ReleaseDate)
		if err != nil {
			return nil, apperror.NewFieldValidation(map[string]string{"release_date": "Must match layout " + dateLayout})
		}
		movie.ReleaseDate = releaseDate
	}

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, apperror.NewNotFound("Movie", movieID)
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated", zap.Int64("movie_id", movie.ID))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID int64) error {
	if err := s.repo.Movie.Delete(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return apperror.NewNotFound("Movie", movieID)
		}
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}
