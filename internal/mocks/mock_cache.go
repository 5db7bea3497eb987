package mocks

import (
	"context"

	"cinema-reservation/internal/data/cache"
	"cinema-reservation/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) Get(ctx context.Context, showtimeID int64) (*cache.SeatSnapshot, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.SeatSnapshot), args.Error(1)
}

func (m *MockAvailabilityCache) Generation(ctx context.Context, showtimeID int64) (int64, error) {
	args := m.Called(ctx, showtimeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAvailabilityCache) Set(ctx context.Context, showtimeID, generation int64, snap cache.SeatSnapshot) (bool, error) {
	args := m.Called(ctx, showtimeID, generation, snap)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, showtimeID int64) error {
	args := m.Called(ctx, showtimeID)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishReservationCreated(ctx context.Context, ev event.ReservationCreated) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockPublisher) PublishReservationCancelled(ctx context.Context, ev event.ReservationCancelled) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockPublisher) Close() error { return nil }
