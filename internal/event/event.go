// Package event publishes reservation lifecycle events to RabbitMQ and
// consumes them for customer notifications.
package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoutingKeyReservationCreated   = "reservation.created"
	RoutingKeyReservationCancelled = "reservation.cancelled"
)

type ReservationCreated struct {
	ReservationID    int64           `json:"reservation_id"`
	ConfirmationCode string          `json:"confirmation_code"`
	UserID           int64           `json:"user_id"`
	ShowtimeID       int64           `json:"showtime_id"`
	NumberOfSeats    int             `json:"number_of_seats"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	BookedSeats      int             `json:"booked_seats"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// ReservationCancelled is the only record left of a cancelled reservation,
// the row itself is deleted.
type ReservationCancelled struct {
	ReservationID    int64           `json:"reservation_id"`
	ConfirmationCode string          `json:"confirmation_code"`
	UserID           int64           `json:"user_id"`
	ShowtimeID       int64           `json:"showtime_id"`
	NumberOfSeats    int             `json:"number_of_seats"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	CancelledBy      int64           `json:"cancelled_by"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

type Publisher interface {
	PublishReservationCreated(ctx context.Context, ev ReservationCreated) error
	PublishReservationCancelled(ctx context.Context, ev ReservationCancelled) error
	Close() error
}
