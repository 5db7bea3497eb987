package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const exchangeKind = "topic"

type amqpPublisher struct {
	url      string
	exchange string
	log      *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials the broker and declares the durable topic exchange.
// Without a URL events are dropped by a no-op publisher.
func NewPublisher(url, exchange string, log *zap.Logger) (Publisher, error) {
	log = log.With(zap.String("component", "event_publisher"))
	if url == "" {
		log.Info("RABBITMQ_URL not set, reservation events disabled")
		return NoopPublisher{}, nil
	}

	p := &amqpPublisher{url: url, exchange: exchange, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}

	log.Info("RabbitMQ publisher ready", zap.String("exchange", exchange))
	return p, nil
}

// connect must be called with mu held, or before the publisher is shared.
func (p *amqpPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	p.conn = conn
	p.channel = ch
	return nil
}

func (p *amqpPublisher) PublishReservationCreated(ctx context.Context, ev ReservationCreated) error {
	return p.publish(ctx, RoutingKeyReservationCreated, ev)
}

func (p *amqpPublisher) PublishReservationCancelled(ctx context.Context, ev ReservationCancelled) error {
	return p.publish(ctx, RoutingKeyReservationCancelled, ev)
}

func (p *amqpPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// channels die with the connection, redial once
	if p.channel == nil || p.channel.IsClosed() {
		if p.conn != nil {
			p.conn.Close()
		}
		if err := p.connect(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         routingKey,
		Body:         body,
	}

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.log.Debug("Event published",
		zap.String("routing_key", routingKey),
		zap.Int("bytes", len(body)),
	)
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type NoopPublisher struct{}

func (NoopPublisher) PublishReservationCreated(context.Context, ReservationCreated) error {
	return nil
}

func (NoopPublisher) PublishReservationCancelled(context.Context, ReservationCancelled) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
