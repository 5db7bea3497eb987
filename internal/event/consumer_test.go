package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedConsumer() (*Consumer, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewConsumer("", "reservations", "q", zap.New(core)), logs
}

func TestConsumer_HandleCreated(t *testing.T) {
	c, logs := newObservedConsumer()

	body, err := json.Marshal(ReservationCreated{
		ReservationID:    1,
		ConfirmationCode: "CINE-7K2PQ",
		UserID:           3,
		ShowtimeID:       9,
		NumberOfSeats:    3,
		TotalPrice:       decimal.NewFromInt(180),
		OccurredAt:       time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, c.Handle(RoutingKeyReservationCreated, body))

	entries := logs.FilterMessage("Reservation confirmed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "CINE-7K2PQ", fields["code"])
	assert.Equal(t, "180.00", fields["total_price"])
}

func TestConsumer_HandleCancelled(t *testing.T) {
	c, logs := newObservedConsumer()

	body, err := json.Marshal(ReservationCancelled{ConfirmationCode: "CINE-AAAAA", NumberOfSeats: 5})
	require.NoError(t, err)

	require.NoError(t, c.Handle(RoutingKeyReservationCancelled, body))
	assert.Equal(t, 1, logs.FilterMessage("Reservation cancelled").Len())
}

func TestConsumer_HandleRejectsBadInput(t *testing.T) {
	c, _ := newObservedConsumer()

	assert.Error(t, c.Handle(RoutingKeyReservationCreated, []byte("{not json")))
	assert.Error(t, c.Handle("reservation.unknown", []byte("{}")))
}
