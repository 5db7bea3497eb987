package repository

import (
	"context"
	"errors"
	"fmt"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ConfirmationCodeConstraint names the unique index backing confirmation codes.
const ConfirmationCodeConstraint = "reservations_confirmation_code_key"

type ReservationRepository interface {
	ExistsByCode(ctx context.Context, q database.Querier, code string) (bool, error)
	Create(ctx context.Context, q database.Querier, reservation *entity.Reservation) error
	FindByCode(ctx context.Context, code string) (*entity.Reservation, error)
	FindByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*entity.Reservation, error)
	DeleteByID(ctx context.Context, q database.Querier, id int64) error
	FindAllByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Reservation, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, user_id, showtime_id, number_of_seats, total_price, confirmation_code, created_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.ShowtimeID,
		&res.NumberOfSeats,
		&res.TotalPrice,
		&res.ConfirmationCode,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) ExistsByCode(ctx context.Context, q database.Querier, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE confirmation_code = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		r.log.Error("Failed to check confirmation code",
			zap.Error(err),
			zap.String("code", code),
		)
		return false, fmt.Errorf("check confirmation code %s: %w", code, err)
	}

	return exists, nil
}

func (r *reservationRepository) Create(ctx context.Context, q database.Querier, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (user_id, showtime_id, number_of_seats, total_price, confirmation_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		reservation.UserID,
		reservation.ShowtimeID,
		reservation.NumberOfSeats,
		reservation.TotalPrice,
		reservation.ConfirmationCode,
	).Scan(&reservation.ID, &reservation.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.Int64("user_id", reservation.UserID),
			zap.Int64("showtime_id", reservation.ShowtimeID),
			zap.String("code", reservation.ConfirmationCode),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.ConfirmationCode, err)
	}

	return nil
}

func (r *reservationRepository) FindByCode(ctx context.Context, code string) (*entity.Reservation, error) {
	return r.findByCode(ctx, r.db, code, false)
}

// FindByCodeForUpdate locks the reservation row so two cancels of the same
// code serialize and the loser sees no row.
func (r *reservationRepository) FindByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*entity.Reservation, error) {
	return r.findByCode(ctx, q, code, true)
}

func (r *reservationRepository) findByCode(ctx context.Context, q database.Querier, code string, lock bool) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE confirmation_code = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	res, err := scanReservation(q.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by code",
			zap.Error(err),
			zap.String("code", code),
			zap.Bool("for_update", lock),
		)
		return nil, fmt.Errorf("find reservation %s: %w", code, err)
	}

	return res, nil
}

func (r *reservationRepository) DeleteByID(ctx context.Context, q database.Querier, id int64) error {
	result, err := q.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete reservation",
			zap.Error(err),
			zap.Int64("reservation_id", id),
		)
		return fmt.Errorf("delete reservation %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (r *reservationRepository) FindAllByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by user",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find reservations of user %d: %w", userID, err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return reservations, nil
}

func (r *reservationRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err), zap.Int64("user_id", userID))
		return 0, fmt.Errorf("count reservations of user %d: %w", userID, err)
	}

	return count, nil
}
