package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/mocks"
	"cinema-reservation/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type showtimeFixture struct {
	showtimes *mocks.MockShowtimeRepo
	movies    *mocks.MockMovieRepo
	theaters  *mocks.MockTheaterRepo
	service   *showtimeService
}

func newShowtimeFixture() showtimeFixture {
	f := showtimeFixture{
		showtimes: new(mocks.MockShowtimeRepo),
		movies:    new(mocks.MockMovieRepo),
		theaters:  new(mocks.MockTheaterRepo),
	}
	repo := &repository.Repository{Showtime: f.showtimes, Movie: f.movies, Theater: f.theaters}
	f.service = NewShowtimeService(repo, zap.NewNop()).(*showtimeService)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func intPtr(v int) *int { return &v }

func TestCreateShowtime(t *testing.T) {
	ctx := context.Background()
	movie := &entity.Movie{Base: entity.Base{ID: 1}, Title: "Dune"}
	theater := &entity.Theater{BaseNoDelete: entity.BaseNoDelete{ID: 2}, Name: "Hall A", Capacity: 120}

	t.Run("defaults total seats to theater capacity", func(t *testing.T) {
		f := newShowtimeFixture()
		f.movies.On("FindByID", ctx, int64(1)).Return(movie, nil)
		f.theaters.On("FindByID", ctx, int64(2)).Return(theater, nil)
		f.showtimes.On("Create", ctx, mock.MatchedBy(func(s *entity.Showtime) bool {
			return s.TotalSeats == 120 && s.BookedSeats == 0 && s.Price.Equal(decimal.RequireFromString("12.50"))
		})).Return(nil)

		resp, err := f.service.CreateShowtime(ctx, &request.ShowtimeRequest{
			MovieID:   1,
			TheaterID: 2,
			StartTime: fixedNow.Add(48 * time.Hour),
			Price:     decimal.RequireFromString("12.50"),
		})

		require.NoError(t, err)
		assert.Equal(t, 120, resp.TotalSeats)
		require.NotNil(t, resp.AvailableSeats)
		assert.Equal(t, 120, *resp.AvailableSeats)
		f.showtimes.AssertExpectations(t)
	})

	t.Run("total seats above capacity", func(t *testing.T) {
		f := newShowtimeFixture()
		f.movies.On("FindByID", ctx, int64(1)).Return(movie, nil)
		f.theaters.On("FindByID", ctx, int64(2)).Return(theater, nil)

		_, err := f.service.CreateShowtime(ctx, &request.ShowtimeRequest{
			MovieID:    1,
			TheaterID:  2,
			StartTime:  fixedNow.Add(time.Hour),
			Price:      decimal.NewFromInt(10),
			TotalSeats: intPtr(121),
		})

		var validation *apperror.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "total_seats")
		f.showtimes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("past start and negative price", func(t *testing.T) {
		f := newShowtimeFixture()

		_, err := f.service.CreateShowtime(ctx, &request.ShowtimeRequest{
			MovieID:   1,
			TheaterID: 2,
			StartTime: fixedNow.Add(-time.Minute),
			Price:     decimal.NewFromInt(-1),
		})

		var validation *apperror.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "start_time")
		assert.Contains(t, validation.Fields, "price")
	})

	t.Run("unknown movie", func(t *testing.T) {
		f := newShowtimeFixture()
		f.movies.On("FindByID", ctx, int64(9)).Return(nil, nil)

		_, err := f.service.CreateShowtime(ctx, &request.ShowtimeRequest{
			MovieID:   9,
			TheaterID: 2,
			StartTime: fixedNow.Add(time.Hour),
		})

		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestGetShowtimeByID(t *testing.T) {
	ctx := context.Background()

	t.Run("reports available seats", func(t *testing.T) {
		f := newShowtimeFixture()
		f.showtimes.On("FindByID", ctx, int64(3)).Return(&entity.Showtime{
			BaseNoDelete: entity.BaseNoDelete{ID: 3}, TotalSeats: 50, BookedSeats: 20,
		}, nil)

		resp, err := f.service.GetShowtimeByID(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, 30, *resp.AvailableSeats)
	})

	t.Run("corrupt counters surface as integrity error", func(t *testing.T) {
		f := newShowtimeFixture()
		f.showtimes.On("FindByID", ctx, int64(3)).Return(&entity.Showtime{TotalSeats: 50, BookedSeats: 51}, nil)

		_, err := f.service.GetShowtimeByID(ctx, 3)

		var integrity *apperror.DataIntegrityError
		assert.ErrorAs(t, err, &integrity)
	})

	t.Run("missing", func(t *testing.T) {
		f := newShowtimeFixture()
		f.showtimes.On("FindByID", ctx, int64(3)).Return(nil, nil)

		_, err := f.service.GetShowtimeByID(ctx, 3)

		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestGetShowtimes_UpcomingFromNow(t *testing.T) {
	f := newShowtimeFixture()
	movieID := int64(1)
	f.showtimes.On("FindUpcoming", mock.Anything, &movieID, fixedNow).
		Return([]*entity.Showtime{{BaseNoDelete: entity.BaseNoDelete{ID: 5}, MovieID: 1}}, nil)

	items, err := f.service.GetShowtimes(context.Background(), &movieID)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ID)
	assert.Nil(t, items[0].AvailableSeats)
}
