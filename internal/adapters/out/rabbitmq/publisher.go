// Package rabbitmq publishes committed order and delivery events to a topic exchange
// so kitchen displays, notifiers and other collaborators can follow order progress.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderhub/internal/adapters/out/eventcodec"
	"orderhub/internal/core/domain/model/kernel"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const DefaultExchange = "orders_topic"

var ErrPublishNacked = errors.New("publish NACK from broker")

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends every event as a persistent JSON message and waits for the broker
// confirm before sending the next one.
type Publisher struct {
	conn     *amqp.Connection
	ch       publishChannel
	acks     <-chan amqp.Confirmation
	exchange string
	logger   logrus.FieldLogger

	mu sync.Mutex
}

// Dial connects to url, declares the durable topic exchange and enables publisher confirms.
func Dial(url, exchange string, logger logrus.FieldLogger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	p := newPublisher(ch, acks, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch publishChannel, acks <-chan amqp.Confirmation, exchange string, logger logrus.FieldLogger) *Publisher {
	return &Publisher{
		ch:       ch,
		acks:     acks,
		exchange: exchange,
		logger:   logger.WithField("component", "rabbitmq_publisher"),
	}
}

// Publish sends events in order. Events without a wire format are skipped; the first
// broker failure stops the batch.
func (p *Publisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range events {
		msg, err := eventcodec.Encode(event)
		if err != nil {
			p.logger.WithError(err).Debug("event skipped")
			continue
		}

		if err = p.publish(ctx, msg, event.OccurredAt()); err != nil {
			return fmt.Errorf("publish %s: %w", msg.RoutingKey, err)
		}
		p.logger.WithField("routing_key", msg.RoutingKey).Debug("event published")
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, msg eventcodec.Message, at time.Time) error {
	err := p.ch.PublishWithContext(ctx, p.exchange, msg.RoutingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         msg.Event,
		Timestamp:    at,
		Body:         msg.Body,
	})
	if err != nil {
		return err
	}

	select {
	case conf := <-p.acks:
		if conf.Ack {
			return nil
		}
		return ErrPublishNacked
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
