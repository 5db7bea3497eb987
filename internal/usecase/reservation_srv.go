package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-reservation/internal/data/cache"
	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/internal/event"
	"cinema-reservation/internal/inventory"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/database"
	"cinema-reservation/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const bookedSeatsConstraint = "showtimes_booked_seats_check"

type ReservationService interface {
	CreateReservation(ctx context.Context, userID int64, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	GetReservationByCode(ctx context.Context, code string) (*response.ReservationResponse, error)
	CancelReservation(ctx context.Context, userID int64, code string) (*response.CancelReservationResponse, error)
	CheckAvailability(ctx context.Context, req *request.CheckAvailabilityRequest) (*response.AvailabilityResponse, error)
	GetUserReservations(ctx context.Context, userID int64, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
}

// ReservationDeps groups the collaborators of the reservation lifecycle.
type ReservationDeps struct {
	Showtimes    repository.ShowtimeRepository
	Reservations repository.ReservationRepository
	Tx           database.Transactor
	Cache        cache.AvailabilityCache
	Events       event.Publisher
	Codes        *utils.CodeGenerator
	MaxSeats     int
}

type reservationService struct {
	showtimes    repository.ShowtimeRepository
	reservations repository.ReservationRepository
	tx           database.Transactor
	cache        cache.AvailabilityCache
	events       event.Publisher
	codes        *utils.CodeGenerator
	calculator   *inventory.Calculator
	maxSeats     int
	tracer       trace.Tracer
	log          *zap.Logger
}

func NewReservationService(deps ReservationDeps, log *zap.Logger) ReservationService {
	return &reservationService{
		showtimes:    deps.Showtimes,
		reservations: deps.Reservations,
		tx:           deps.Tx,
		cache:        deps.Cache,
		events:       deps.Events,
		codes:        deps.Codes,
		calculator:   inventory.NewCalculator(deps.Showtimes),
		maxSeats:     deps.MaxSeats,
		tracer:       otel.Tracer("cinema-reservation/usecase/reservation"),
		log:          log.With(zap.String("service", "reservation")),
	}
}

// CreateReservation books seats under an exclusive lock on the showtime row.
// Availability check, code generation, insert and counter increment commit
// or roll back together.
func (s *reservationService) CreateReservation(ctx context.Context, userID int64, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ReservationService.CreateReservation", trace.WithAttributes(
		attribute.Int64("showtime.id", req.ShowtimeID),
		attribute.Int("reservation.seats", req.NumberOfSeats),
	))
	defer span.End()

	if err := s.validateRequest(userID, req.ShowtimeID, req.NumberOfSeats); err != nil {
		return nil, s.fail(span, err)
	}

	var (
		created *entity.Reservation
		booked  int
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		showtime, err := s.showtimes.LockByID(ctx, tx, req.ShowtimeID)
		if err != nil {
			return err
		}
		if showtime == nil {
			return apperror.NewNotFound("Showtime", req.ShowtimeID)
		}

		available, err := inventory.OfShowtime(showtime)
		if err != nil {
			return err
		}
		if available < req.NumberOfSeats {
			return &apperror.InsufficientSeatsError{Requested: req.NumberOfSeats, Available: available}
		}

		code, err := s.codes.Generate(ctx, func(ctx context.Context, candidate string) (bool, error) {
			return s.reservations.ExistsByCode(ctx, tx, candidate)
		})
		if err != nil {
			return err
		}

		reservation := &entity.Reservation{
			UserID:           userID,
			ShowtimeID:       showtime.ID,
			NumberOfSeats:    req.NumberOfSeats,
			TotalPrice:       showtime.Price.Mul(decimal.NewFromInt(int64(req.NumberOfSeats))),
			ConfirmationCode: code,
		}
		if err := s.reservations.Create(ctx, tx, reservation); err != nil {
			return err
		}

		booked, err = s.showtimes.IncrementBookedSeats(ctx, tx, showtime.ID, req.NumberOfSeats)
		if errors.Is(err, repository.ErrNoRowsAffected) {
			// the row is locked, so the guard can only miss on a concurrent schema-level change
			return &apperror.InsufficientSeatsError{Requested: req.NumberOfSeats, Available: available}
		}
		if err != nil {
			return err
		}

		created = reservation
		return nil
	})
	if err != nil {
		return nil, s.fail(span, s.classify("create reservation", err))
	}

	span.SetAttributes(attribute.String("reservation.code", created.ConfirmationCode))

	s.log.Info("Reservation created",
		zap.String("code", created.ConfirmationCode),
		zap.Int64("user_id", userID),
		zap.Int64("showtime_id", created.ShowtimeID),
		zap.Int("seats", created.NumberOfSeats),
		zap.Int("booked_seats", booked),
	)

	s.invalidate(ctx, created.ShowtimeID)
	s.publish(ctx, event.RoutingKeyReservationCreated, func(ctx context.Context) error {
		return s.events.PublishReservationCreated(ctx, event.ReservationCreated{
			ReservationID:    created.ID,
			ConfirmationCode: created.ConfirmationCode,
			UserID:           created.UserID,
			ShowtimeID:       created.ShowtimeID,
			NumberOfSeats:    created.NumberOfSeats,
			TotalPrice:       created.TotalPrice,
			BookedSeats:      booked,
			OccurredAt:       created.CreatedAt,
		})
	})

	resp := response.ReservationToResponse(created)
	return &resp, nil
}

func (s *reservationService) GetReservationByCode(ctx context.Context, code string) (*response.ReservationResponse, error) {
	if !utils.IsConfirmationCode(code) {
		return nil, invalidCode()
	}

	reservation, err := s.reservations.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if reservation == nil {
		return nil, apperror.NewNotFound("Reservation", code)
	}

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

// CancelReservation releases the seats and deletes the reservation in one
// transaction. A second cancel of the same code finds no row.
func (s *reservationService) CancelReservation(ctx context.Context, userID int64, code string) (*response.CancelReservationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ReservationService.CancelReservation", trace.WithAttributes(
		attribute.String("reservation.code", code),
	))
	defer span.End()

	if !utils.IsConfirmationCode(code) {
		return nil, s.fail(span, invalidCode())
	}

	var (
		cancelled *entity.Reservation
		booked    = -1
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		reservation, err := s.reservations.FindByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		if reservation == nil {
			return apperror.NewNotFound("Reservation", code)
		}

		showtime, err := s.showtimes.LockByID(ctx, tx, reservation.ShowtimeID)
		if err != nil {
			return err
		}
		if showtime != nil {
			booked, err = s.showtimes.DecrementBookedSeats(ctx, tx, showtime.ID, reservation.NumberOfSeats)
			if err != nil {
				return err
			}
		}

		if err := s.reservations.DeleteByID(ctx, tx, reservation.ID); err != nil {
			return err
		}

		cancelled = reservation
		return nil
	})
	if err != nil {
		return nil, s.fail(span, s.classify("cancel reservation", err))
	}

	s.log.Info("Reservation cancelled",
		zap.String("code", code),
		zap.Int64("cancelled_by", userID),
		zap.Int64("owner_id", cancelled.UserID),
		zap.Int64("showtime_id", cancelled.ShowtimeID),
		zap.Int("seats", cancelled.NumberOfSeats),
		zap.Int("booked_seats", booked),
	)

	s.invalidate(ctx, cancelled.ShowtimeID)
	s.publish(ctx, event.RoutingKeyReservationCancelled, func(ctx context.Context) error {
		return s.events.PublishReservationCancelled(ctx, event.ReservationCancelled{
			ReservationID:    cancelled.ID,
			ConfirmationCode: cancelled.ConfirmationCode,
			UserID:           cancelled.UserID,
			ShowtimeID:       cancelled.ShowtimeID,
			NumberOfSeats:    cancelled.NumberOfSeats,
			TotalPrice:       cancelled.TotalPrice,
			CancelledBy:      userID,
			OccurredAt:       time.Now().UTC(),
		})
	})

	return &response.CancelReservationResponse{ConfirmationCode: code, Cancelled: true}, nil
}

// CheckAvailability is advisory: it takes no lock and may read a cached
// snapshot, so a later create can still fail with InsufficientSeatsError.
func (s *reservationService) CheckAvailability(ctx context.Context, req *request.CheckAvailabilityRequest) (*response.AvailabilityResponse, error) {
	if req.ShowtimeID <= 0 {
		return nil, apperror.NewFieldValidation(map[string]string{"showtime_id": "Must be greater than 0"})
	}
	if req.NumberOfSeats <= 0 {
		return nil, apperror.NewFieldValidation(map[string]string{"number_of_seats": "Must be greater than 0"})
	}

	available, err := s.availableSeats(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	return &response.AvailabilityResponse{
		ShowtimeID:     req.ShowtimeID,
		Available:      available >= req.NumberOfSeats,
		AvailableSeats: available,
	}, nil
}

func (s *reservationService) availableSeats(ctx context.Context, showtimeID int64) (int, error) {
	snap, err := s.cache.Get(ctx, showtimeID)
	if err != nil {
		s.log.Warn("Availability cache read failed", zap.Error(err), zap.Int64("showtime_id", showtimeID))
	}
	if snap != nil {
		if available, err := inventory.Available(snap.Total, snap.Booked); err == nil {
			return available, nil
		}
		// a broken snapshot is dropped and re-read from the database
		_ = s.cache.Invalidate(ctx, showtimeID)
	}

	// generation dibaca sebelum query, supaya fill yang kalah dari Invalidate tidak ditulis
	gen, genErr := s.cache.Generation(ctx, showtimeID)
	if genErr != nil {
		s.log.Warn("Availability cache generation read failed", zap.Error(genErr), zap.Int64("showtime_id", showtimeID))
	}

	seats, err := s.calculator.SeatsByID(ctx, showtimeID)
	if err != nil {
		var integrity *apperror.DataIntegrityError
		if errors.As(err, &integrity) {
			s.log.Error("Showtime counters are inconsistent", zap.Error(err), zap.Int64("showtime_id", showtimeID))
			return 0, err
		}
		if apperror.IsNotFound(err) {
			return 0, err
		}
		return 0, fmt.Errorf("read availability: %w", err)
	}

	if genErr == nil {
		stored, err := s.cache.Set(ctx, showtimeID, gen, cache.SeatSnapshot{Total: seats.Total, Booked: seats.Booked})
		switch {
		case err != nil:
			s.log.Warn("Availability cache write failed", zap.Error(err), zap.Int64("showtime_id", showtimeID))
		case !stored:
			s.log.Debug("Seats changed during read, snapshot not cached", zap.Int64("showtime_id", showtimeID))
		}
	}

	return seats.Available, nil
}

func (s *reservationService) GetUserReservations(ctx context.Context, userID int64, req request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	reservations, err := s.reservations.FindAllByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get reservations: %w", err)
	}

	total, err := s.reservations.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	items := make([]response.ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = response.ReservationToResponse(r)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *reservationService) validateRequest(userID, showtimeID int64, seats int) error {
	if userID <= 0 {
		return &apperror.UnauthorizedError{Message: "Authentication required"}
	}

	fields := map[string]string{}
	if showtimeID <= 0 {
		fields["showtime_id"] = "Must be greater than 0"
	}
	switch {
	case seats <= 0:
		fields["number_of_seats"] = "Must be greater than 0"
	case seats > s.maxSeats:
		fields["number_of_seats"] = fmt.Sprintf("Maximum value is %d", s.maxSeats)
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

// classify turns driver failures into domain errors. Domain errors raised
// inside the transaction pass through unchanged.
func (s *reservationService) classify(op string, err error) error {
	var (
		notFound     *apperror.NotFoundError
		insufficient *apperror.InsufficientSeatsError
		integrity    *apperror.DataIntegrityError
		validation   *apperror.ValidationError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &insufficient), errors.As(err, &validation):
		return err
	case errors.As(err, &integrity):
		s.log.Error("Seat counters are inconsistent", zap.String("op", op), zap.Error(err))
		return err
	case database.IsRetryable(err):
		s.log.Warn("Lock contention", zap.String("op", op), zap.Error(err))
		return &apperror.ConcurrencyError{Op: op, Err: err}
	case database.IsUniqueViolation(err, repository.ConfirmationCodeConstraint):
		s.log.Warn("Confirmation code taken concurrently", zap.String("op", op))
		return &apperror.ConcurrencyError{Op: op, Err: err}
	case database.IsCheckViolation(err, bookedSeatsConstraint):
		s.log.Error("Booked seats constraint rejected update", zap.String("op", op), zap.Error(err))
		return &apperror.DataIntegrityError{Reason: "booked seats constraint rejected update", Total: -1, Booked: -1}
	case errors.Is(err, apperror.ErrCodeSpaceExhausted):
		s.log.Error("Confirmation code space exhausted",
			zap.String("op", op),
			zap.Int("max_attempts", s.codes.MaxAttempts()),
		)
		return fmt.Errorf("%s: %w", op, err)
	default:
		s.log.Error("Reservation operation failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *reservationService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// invalidate runs after commit. A stale snapshot only affects the advisory check.
func (s *reservationService) invalidate(ctx context.Context, showtimeID int64) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), showtimeID); err != nil {
		s.log.Warn("Failed to invalidate availability snapshot", zap.Error(err), zap.Int64("showtime_id", showtimeID))
	}
}

// publish runs after commit; a broker outage never fails the request.
func (s *reservationService) publish(ctx context.Context, routingKey string, fn func(context.Context) error) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	if err := fn(pubCtx); err != nil {
		s.log.Warn("Failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

func invalidCode() error {
	return apperror.NewFieldValidation(map[string]string{
		"code": "Invalid confirmation code format. Expected: CINE-XXXXX",
	})
}
