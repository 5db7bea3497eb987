//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/event"
	"cinema-reservation/internal/wire"
	"cinema-reservation/pkg/cache"
	"cinema-reservation/pkg/database"
	"cinema-reservation/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"
)

type BaseSuite struct {
	suite.Suite
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer

	pool   *pgxpool.Pool
	rdb    *redis.Client
	config *utils.Config
	app    *wire.App
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	s.Require().NoError(err)
	s.dbContainer = postgresContainer

	redisContainer, err := getCacheContainer(ctx)
	s.Require().NoError(err)
	s.cacheContainer = redisContainer

	s.pool, err = pgxpool.New(ctx, postgresContainer.ConnectionString)
	s.Require().NoError(err)

	s.config = &utils.Config{
		Database:    utils.DatabaseConfig{LockTimeout: 5 * time.Second},
		JWT:         utils.JWTConfig{Secret: "integration-secret", ExpiryHours: 1},
		Reservation: utils.ReservationConfig{MaxSeatsPerBooking: 25, CodeMaxAttempts: 10},
		Redis:       utils.RedisConfig{Addr: redisContainer.Addr, CacheTTL: 30 * time.Second},
		Telemetry:   utils.TelemetryConfig{ServiceName: "cinema-reservation-test"},
	}

	s.rdb, err = cache.NewRedisClient(s.config.Redis, zap.NewNop())
	s.Require().NoError(err)

	db := database.NewDB(s.pool)
	s.app = wire.Wiring(wire.Deps{
		DB:     db,
		Repo:   repository.NewRepository(db, zap.NewNop()),
		Redis:  s.rdb,
		Events: event.NoopPublisher{},
		Config: s.config,
		Logger: zap.NewNop(),
	})
}

func (s *BaseSuite) TearDownSuite() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

func (s *BaseSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `TRUNCATE reservations, showtimes, theaters, movies, sessions, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
	s.Require().NoError(s.rdb.FlushDB(ctx).Err())
}

func (s *BaseSuite) seedUser(email string) int64 {
	var id int64
	err := s.pool.QueryRow(context.Background(),
		`INSERT INTO users (name, email, password) VALUES ('Test User', $1, 'x') RETURNING id`, email,
	).Scan(&id)
	s.Require().NoError(err)
	return id
}

// seedShowtime inserts a movie, a theater and a showtime with the given counters.
func (s *BaseSuite) seedShowtime(total, booked int, price decimal.Decimal) int64 {
	ctx := context.Background()

	var movieID, theaterID, showtimeID int64
	s.Require().NoError(s.pool.QueryRow(ctx,
		`INSERT INTO movies (title, duration_in_minutes, release_date, genre)
		 VALUES ('Test Movie', 120, '2026-01-01', 'drama') RETURNING id`,
	).Scan(&movieID))
	s.Require().NoError(s.pool.QueryRow(ctx,
		`INSERT INTO theaters (name, location, capacity) VALUES ('Hall', 'Jakarta', $1) RETURNING id`, total,
	).Scan(&theaterID))
	s.Require().NoError(s.pool.QueryRow(ctx,
		`INSERT INTO showtimes (movie_id, theater_id, start_time, price, total_seats, booked_seats)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		movieID, theaterID, time.Now().Add(24*time.Hour), price, total, booked,
	).Scan(&showtimeID))

	return showtimeID
}

func (s *BaseSuite) bookedSeats(showtimeID int64) int {
	var booked int
	s.Require().NoError(s.pool.QueryRow(context.Background(),
		`SELECT booked_seats FROM showtimes WHERE id = $1`, showtimeID,
	).Scan(&booked))
	return booked
}

func (s *BaseSuite) reservedSeats(showtimeID int64) int {
	var seats int
	s.Require().NoError(s.pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(number_of_seats), 0) FROM reservations WHERE showtime_id = $1`, showtimeID,
	).Scan(&seats))
	return seats
}

func seatsKey(showtimeID int64) string {
	return fmt.Sprintf("showtime:{%d}:seats", showtimeID)
}
