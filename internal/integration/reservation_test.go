//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	datacache "cinema-reservation/internal/data/cache"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type ReservationSuite struct {
	BaseSuite
}

func TestReservationSuite(t *testing.T) {
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) create(userID, showtimeID int64, seats int) (*response.ReservationResponse, error) {
	return s.app.Service.Reservation.CreateReservation(context.Background(), userID,
		&request.CreateReservationRequest{ShowtimeID: showtimeID, NumberOfSeats: seats})
}

func (s *ReservationSuite) TestConcurrentCreatesNeverOversell() {
	userID := s.seedUser("crowd@example.com")
	showtimeID := s.seedShowtime(50, 0, decimal.NewFromInt(10))

	const workers = 40
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
		others    []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.create(userID, showtimeID, 2)

			mu.Lock()
			defer mu.Unlock()
			var insufficient *apperror.InsufficientSeatsError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &insufficient):
				rejected++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(others)
	s.Equal(25, succeeded)
	s.Equal(15, rejected)
	s.Equal(50, s.bookedSeats(showtimeID))
	s.Equal(50, s.reservedSeats(showtimeID))
}

func (s *ReservationSuite) TestFillLastSeatsThenSoldOut() {
	userID := s.seedUser("last@example.com")
	showtimeID := s.seedShowtime(100, 90, decimal.NewFromInt(10))

	_, err := s.create(userID, showtimeID, 10)
	s.Require().NoError(err)
	s.Equal(100, s.bookedSeats(showtimeID))

	_, err = s.create(userID, showtimeID, 1)
	var insufficient *apperror.InsufficientSeatsError
	s.Require().ErrorAs(err, &insufficient)
	s.Equal(0, insufficient.Available)
	s.Equal(100, s.bookedSeats(showtimeID))
}

func (s *ReservationSuite) TestTwoConcurrentRequestsForTheSameSeats() {
	userID := s.seedUser("pair@example.com")
	showtimeID := s.seedShowtime(50, 20, decimal.NewFromInt(10))

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.create(userID, showtimeID, 20)
		}(i)
	}
	wg.Wait()

	var failures []error
	for _, err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	s.Require().Len(failures, 1)

	var insufficient *apperror.InsufficientSeatsError
	s.Require().ErrorAs(failures[0], &insufficient)
	s.Equal(10, insufficient.Available)
	s.Equal(40, s.bookedSeats(showtimeID))
}

func (s *ReservationSuite) TestTotalPriceIsStored() {
	userID := s.seedUser("price@example.com")
	showtimeID := s.seedShowtime(50, 0, decimal.NewFromInt(60))

	created, err := s.create(userID, showtimeID, 3)
	s.Require().NoError(err)

	found, err := s.app.Service.Reservation.GetReservationByCode(context.Background(), created.ConfirmationCode)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(180).Equal(found.TotalPrice), "got %s", found.TotalPrice)
	s.Regexp(`^CINE-[A-Z0-9]{5}$`, found.ConfirmationCode)
}

func (s *ReservationSuite) TestCancelReleasesSeatsOnce() {
	ctx := context.Background()
	userID := s.seedUser("cancel@example.com")
	showtimeID := s.seedShowtime(50, 0, decimal.NewFromInt(10))

	created, err := s.create(userID, showtimeID, 5)
	s.Require().NoError(err)
	s.Equal(5, s.bookedSeats(showtimeID))

	_, err = s.app.Service.Reservation.CancelReservation(ctx, userID, created.ConfirmationCode)
	s.Require().NoError(err)
	s.Equal(0, s.bookedSeats(showtimeID))

	_, err = s.app.Service.Reservation.CancelReservation(ctx, userID, created.ConfirmationCode)
	s.True(apperror.IsNotFound(err))
	s.Equal(0, s.bookedSeats(showtimeID))
}

func (s *ReservationSuite) TestConcurrentCancelsOfOneCode() {
	ctx := context.Background()
	userID := s.seedUser("double@example.com")
	showtimeID := s.seedShowtime(50, 0, decimal.NewFromInt(10))

	created, err := s.create(userID, showtimeID, 4)
	s.Require().NoError(err)

	errs := make([]error, 5)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.app.Service.Reservation.CancelReservation(ctx, userID, created.ConfirmationCode)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.True(apperror.IsNotFound(err), "unexpected error: %v", err)
	}
	s.Equal(1, ok)
	s.Equal(0, s.bookedSeats(showtimeID))
}

func (s *ReservationSuite) TestConfirmationCodesAreUnique() {
	userID := s.seedUser("codes@example.com")
	showtimeID := s.seedShowtime(500, 0, decimal.NewFromInt(1))

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		created, err := s.create(userID, showtimeID, 1)
		s.Require().NoError(err)
		s.False(seen[created.ConfirmationCode], "duplicate code %s", created.ConfirmationCode)
		seen[created.ConfirmationCode] = true
	}
}

func (s *ReservationSuite) TestAvailabilitySnapshotIsInvalidatedAfterCommit() {
	ctx := context.Background()
	userID := s.seedUser("cache@example.com")
	showtimeID := s.seedShowtime(30, 10, decimal.NewFromInt(10))
	check := &request.CheckAvailabilityRequest{ShowtimeID: showtimeID, NumberOfSeats: 20}

	availability, err := s.app.Service.Reservation.CheckAvailability(ctx, check)
	s.Require().NoError(err)
	s.True(availability.Available)
	s.Equal(int64(1), s.rdb.Exists(ctx, seatsKey(showtimeID)).Val())

	_, err = s.create(userID, showtimeID, 5)
	s.Require().NoError(err)
	s.Equal(int64(0), s.rdb.Exists(ctx, seatsKey(showtimeID)).Val())

	availability, err = s.app.Service.Reservation.CheckAvailability(ctx, check)
	s.Require().NoError(err)
	s.False(availability.Available)
	s.Equal(15, availability.AvailableSeats)
}

func (s *ReservationSuite) TestFillAfterInvalidateIsDropped() {
	ctx := context.Background()
	showtimeID := s.seedShowtime(50, 20, decimal.NewFromInt(10))
	snapshots := datacache.NewAvailabilityCache(s.rdb, time.Minute, zap.NewNop())

	gen, err := snapshots.Generation(ctx, showtimeID)
	s.Require().NoError(err)

	// a create commits between the read and the fill
	s.Require().NoError(snapshots.Invalidate(ctx, showtimeID))

	stored, err := snapshots.Set(ctx, showtimeID, gen, datacache.SeatSnapshot{Total: 50, Booked: 20})
	s.Require().NoError(err)
	s.False(stored)
	s.Equal(int64(0), s.rdb.Exists(ctx, seatsKey(showtimeID)).Val())

	gen, err = snapshots.Generation(ctx, showtimeID)
	s.Require().NoError(err)
	s.Equal(int64(1), gen)

	stored, err = snapshots.Set(ctx, showtimeID, gen, datacache.SeatSnapshot{Total: 50, Booked: 40})
	s.Require().NoError(err)
	s.True(stored)

	snap, err := snapshots.Get(ctx, showtimeID)
	s.Require().NoError(err)
	s.Equal(&datacache.SeatSnapshot{Total: 50, Booked: 40}, snap)
	s.Positive(s.rdb.PTTL(ctx, seatsKey(showtimeID)).Val())
}

func (s *ReservationSuite) TestHTTPReservationLifecycle() {
	router := s.app.Router
	showtimeID := s.seedShowtime(20, 0, decimal.NewFromInt(15))

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/register", `{"name":"Sari","email":"sari@example.com","password":"password123"}`, "")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var auth struct {
		Data response.AuthResponse `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &auth))
	token := auth.Data.Token

	rec = do(http.MethodPost, "/api/reservations", fmt.Sprintf(`{"showtime_id":%d,"number_of_seats":4}`, showtimeID), "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = do(http.MethodPost, "/api/reservations", fmt.Sprintf(`{"showtime_id":%d,"number_of_seats":4}`, showtimeID), token)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data response.ReservationResponse `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	code := created.Data.ConfirmationCode

	rec = do(http.MethodPost, "/api/reservations", fmt.Sprintf(`{"showtime_id":%d,"number_of_seats":17}`, showtimeID), token)
	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), `"available_seats":16`)

	rec = do(http.MethodGet, "/api/reservations/"+code, "", token)
	s.Equal(http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/api/reservations/my-reservations", "", token)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), code)

	rec = do(http.MethodDelete, "/api/reservations/"+code, "", token)
	s.Equal(http.StatusOK, rec.Code)

	rec = do(http.MethodDelete, "/api/reservations/"+code, "", token)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = do(http.MethodPost, "/api/logout", "", token)
	s.Equal(http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/api/reservations/my-reservations", "", token)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, rec.Code)
}
