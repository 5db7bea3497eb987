package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Consumer binds a durable queue to every reservation.* event and logs
// one notification line per event.
type Consumer struct {
	url      string
	exchange string
	queue    string
	log      *zap.Logger
}

func NewConsumer(url, exchange, queue string, log *zap.Logger) *Consumer {
	return &Consumer{
		url:      url,
		exchange: exchange,
		queue:    queue,
		log:      log.With(zap.String("component", "event_consumer")),
	}
}

// Run reconnects with exponential backoff until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := c.consumeOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}

		c.log.Warn("Consumer disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

func (c *Consumer) consumeOnce(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("Set QoS failed", zap.Error(err))
	}

	if err := ch.ExchangeDeclare(c.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	q, err := ch.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, "reservation.*", c.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	c.log.Info("Consuming reservation events", zap.String("queue", q.Name))

	for d := range msgs {
		if err := c.Handle(d.RoutingKey, d.Body); err != nil {
			c.log.Error("Failed to handle event",
				zap.Error(err),
				zap.String("routing_key", d.RoutingKey),
			)
			// no requeue, a poison message would loop forever
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}

	return errors.New("deliveries channel closed")
}

// Handle decodes one event body and emits the notification log line.
func (c *Consumer) Handle(routingKey string, body []byte) error {
	switch routingKey {
	case RoutingKeyReservationCreated:
		var ev ReservationCreated
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		c.log.Info("Reservation confirmed",
			zap.String("code", ev.ConfirmationCode),
			zap.Int64("user_id", ev.UserID),
			zap.Int64("showtime_id", ev.ShowtimeID),
			zap.Int("seats", ev.NumberOfSeats),
			zap.String("total_price", ev.TotalPrice.StringFixed(2)),
		)
	case RoutingKeyReservationCancelled:
		var ev ReservationCancelled
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal %s: %w", routingKey, err)
		}
		c.log.Info("Reservation cancelled",
			zap.String("code", ev.ConfirmationCode),
			zap.Int64("user_id", ev.UserID),
			zap.Int64("showtime_id", ev.ShowtimeID),
			zap.Int("seats", ev.NumberOfSeats),
			zap.Int64("cancelled_by", ev.CancelledBy),
		)
	default:
		return fmt.Errorf("unknown routing key %q", routingKey)
	}
	return nil
}
