package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ShowtimeRepository reads showtimes and owns the booked-seat counter
// statements. Methods taking a database.Querier are meant to run inside
// the caller's transaction.
type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id int64) (*entity.Showtime, error)
	FindUpcoming(ctx context.Context, movieID *int64, from time.Time) ([]*entity.Showtime, error)

	LockByID(ctx context.Context, q database.Querier, id int64) (*entity.Showtime, error)
	IncrementBookedSeats(ctx context.Context, q database.Querier, id int64, seats int) (int, error)
	DecrementBookedSeats(ctx context.Context, q database.Querier, id int64, seats int) (int, error)
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeColumns = `id, movie_id, theater_id, start_time, price, total_seats, booked_seats, created_at, updated_at`

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var s entity.Showtime
	err := row.Scan(
		&s.ID,
		&s.MovieID,
		&s.TheaterID,
		&s.StartTime,
		&s.Price,
		&s.TotalSeats,
		&s.BookedSeats,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create always starts a showtime with zero booked seats.
func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		INSERT INTO showtimes (movie_id, theater_id, start_time, price, total_seats, booked_seats)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id, booked_seats, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		showtime.MovieID,
		showtime.TheaterID,
		showtime.StartTime,
		showtime.Price,
		showtime.TotalSeats,
	).Scan(&showtime.ID, &showtime.BookedSeats, &showtime.CreatedAt, &showtime.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.Int64("movie_id", showtime.MovieID),
			zap.Int64("theater_id", showtime.TheaterID),
			zap.Time("start_time", showtime.StartTime),
		)
		return fmt.Errorf("create showtime for movie %d theater %d: %w",
			showtime.MovieID, showtime.TheaterID, err)
	}

	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id int64) (*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`

	showtime, err := scanShowtime(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.Int64("showtime_id", id),
		)
		return nil, fmt.Errorf("find showtime by ID %d: %w", id, err)
	}

	return showtime, nil
}

func (r *showtimeRepository) FindUpcoming(ctx context.Context, movieID *int64, from time.Time) ([]*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE start_time >= $1
		  AND ($2::BIGINT IS NULL OR movie_id = $2)
		ORDER BY start_time, id
	`

	rows, err := r.db.Query(ctx, query, from, movieID)
	if err != nil {
		r.log.Error("Failed to find upcoming showtimes",
			zap.Error(err),
			zap.Int64p("movie_id", movieID),
		)
		return nil, fmt.Errorf("find upcoming showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, showtime)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate showtime rows: %w", err)
	}

	return showtimes, nil
}

// LockByID reads the showtime holding an exclusive row lock until the
// surrounding transaction ends. Returns nil, nil when the row is gone.
func (r *showtimeRepository) LockByID(ctx context.Context, q database.Querier, id int64) (*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1 FOR UPDATE`

	showtime, err := scanShowtime(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		// lock timeouts land here, the caller classifies them
		r.log.Warn("Failed to lock showtime",
			zap.Error(err),
			zap.Int64("showtime_id", id),
		)
		return nil, fmt.Errorf("lock showtime %d: %w", id, err)
	}

	return showtime, nil
}

// IncrementBookedSeats adds seats in a single statement and returns the new
// counter. The guard in the WHERE clause never lets the counter pass
// total_seats; a guarded miss reports ErrNoRowsAffected.
func (r *showtimeRepository) IncrementBookedSeats(ctx context.Context, q database.Querier, id int64, seats int) (int, error) {
	query := `
		UPDATE showtimes
		SET booked_seats = booked_seats + $2, updated_at = NOW()
		WHERE id = $1 AND booked_seats + $2 <= total_seats
		RETURNING booked_seats
	`

	var booked int
	err := q.QueryRow(ctx, query, id, seats).Scan(&booked)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoRowsAffected
	}
	if err != nil {
		r.log.Error("Failed to increment booked seats",
			zap.Error(err),
			zap.Int64("showtime_id", id),
			zap.Int("seats", seats),
		)
		return 0, fmt.Errorf("increment booked seats of showtime %d: %w", id, err)
	}

	return booked, nil
}

// DecrementBookedSeats releases seats, flooring the counter at zero.
func (r *showtimeRepository) DecrementBookedSeats(ctx context.Context, q database.Querier, id int64, seats int) (int, error) {
	query := `
		UPDATE showtimes
		SET booked_seats = GREATEST(0, booked_seats - $2), updated_at = NOW()
		WHERE id = $1
		RETURNING booked_seats
	`

	var booked int
	err := q.QueryRow(ctx, query, id, seats).Scan(&booked)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNoRowsAffected
	}
	if err != nil {
		r.log.Error("Failed to decrement booked seats",
			zap.Error(err),
			zap.Int64("showtime_id", id),
			zap.Int("seats", seats),
		)
		return 0, fmt.Errorf("decrement booked seats of showtime %d: %w", id, err)
	}

	return booked, nil
}
