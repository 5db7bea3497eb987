package mocks

import (
	"context"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/pkg/database"

	"github.com/stretchr/testify/mock"
)

type MockReservationRepo struct {
	mock.Mock
	repository.ReservationRepository
}

func (m *MockReservationRepo) ExistsByCode(ctx context.Context, q database.Querier, code string) (bool, error) {
	args := m.Called(ctx, q, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) Create(ctx context.Context, q database.Querier, reservation *entity.Reservation) error {
	args := m.Called(ctx, q, reservation)
	return args.Error(0)
}

func (m *MockReservationRepo) FindByCode(ctx context.Context, code string) (*entity.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepo) FindByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*entity.Reservation, error) {
	args := m.Called(ctx, q, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepo) DeleteByID(ctx context.Context, q database.Querier, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockReservationRepo) FindAllByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
