// Package events publishes seat and order state changes so presentation
// layers can refresh seat maps without polling. Publishing is best-effort:
// failures are logged and returned, but callers never fail a request over a
// missed event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, queue string, event any) error
	Close() error
}

type amqpPublisher struct {
	conn *amqp.Connection
	log  *zap.Logger
}

// NewAMQPPublisher dials the broker once; channels are opened per publish.
func NewAMQPPublisher(url string, log *zap.Logger) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	return &amqpPublisher{
		conn: conn,
		log:  log.With(zap.String("component", "event_publisher")),
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, queue string, event any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		p.log.Warn("Failed to open channel", zap.Error(err), zap.String("queue", queue))
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	// Idempotent declare, durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.Warn("Failed to declare queue", zap.Error(err), zap.String("queue", queue))
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.log.Warn("Failed to publish event", zap.Error(err), zap.String("queue", queue))
		return fmt.Errorf("publish to queue %s: %w", queue, err)
	}

	return nil
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, queue string, event any) error { return nil }
func (NopPublisher) Close() error                                               { return nil }
