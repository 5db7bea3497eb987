package mocks

import (
	"context"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"

	"github.com/stretchr/testify/mock"
)

type MockMovieRepo struct {
	mock.Mock
	repository.MovieRepository
}

func (m *MockMovieRepo) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Movie), args.Error(1)
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepo) Update(ctx context.Context, movie *entity.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieRepo) FindAll(ctx context.Context, offset, limit int, genre *string) ([]*entity.Movie, error) {
	args := m.Called(ctx, offset, limit, genre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Movie), args.Error(1)
}

func (m *MockMovieRepo) CountAll(ctx context.Context, genre *string) (int64, error) {
	args := m.Called(ctx, genre)
	return args.Get(0).(int64), args.Error(1)
}

type MockTheaterRepo struct {
	mock.Mock
	repository.TheaterRepository
}

func (m *MockTheaterRepo) FindByID(ctx context.Context, id int64) (*entity.Theater, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Theater), args.Error(1)
}
