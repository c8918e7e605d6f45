package queue

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Consumer читает события из очереди и передает их Handler.
// Ошибочные сообщения отклоняются без повторной постановки.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	handler  Handler
	log      Logger
}

func NewConsumer(url, queue string, prefetch int, handler Handler, log Logger) *Consumer {
	return &Consumer{url: url, queue: queue, prefetch: prefetch, handler: handler, log: log}
}

// Run переподключается с экспоненциальной задержкой до отмены ctx
func (c *Consumer) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("Consumer: dial failed, retry in %s: %v", backoff, err)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = initialBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("Consumer: consume loop ended, reconnecting: %v", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	defer ch.Close()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn("Consumer: set QoS failed: %v", err)
	}
	if err := declare(ch, c.queue); err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%w: consume %s: %v", ErrConnect, c.queue, err)
	}
	c.log.Info("Consumer: listening queue=%s", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			if err := c.process(ctx, d.Body); err != nil {
				c.log.Error("Consumer: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) process(ctx context.Context, body []byte) error {
	event, err := decode(body)
	if err != nil {
		return err
	}
	if err := c.handler.HandleEvent(ctx, event); err != nil {
		return fmt.Errorf("handle %s booking=%s: %w", event.Type, event.BookingNumber, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
