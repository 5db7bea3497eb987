package mocks

import (
	"context"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/pkg/database"

	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
	repository.ShowtimeRepository
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *entity.Showtime) error {
	args := m.Called(ctx, showtime)
	return args.Error(0)
}

func (m *MockShowtimeRepo) FindByID(ctx context.Context, id int64) (*entity.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) FindUpcoming(ctx context.Context, movieID *int64, from time.Time) ([]*entity.Showtime, error) {
	args := m.Called(ctx, movieID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) LockByID(ctx context.Context, q database.Querier, id int64) (*entity.Showtime, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) IncrementBookedSeats(ctx context.Context, q database.Querier, id int64, seats int) (int, error) {
	args := m.Called(ctx, q, id, seats)
	return args.Int(0), args.Error(1)
}

func (m *MockShowtimeRepo) DecrementBookedSeats(ctx context.Context, q database.Querier, id int64, seats int) (int, error) {
	args := m.Called(ctx, q, id, seats)
	return args.Int(0), args.Error(1)
}
