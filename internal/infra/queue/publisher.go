package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// Publisher публикует события в durable-очередь через default exchange.
// Соединение открывается лениво и переоткрывается после разрыва.
type Publisher struct {
	url   string
	queue string
	log   Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, queue string, log Logger) *Publisher {
	return &Publisher{url: url, queue: queue, log: log}
}

// Publish отправляет событие как persistent JSON-сообщение
func (p *Publisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	body, err := encode(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("%w: %s booking=%s: %v", ErrPublish, event.Type, event.BookingNumber, err)
	}
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func (p *Publisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	if err := declare(ch, p.queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn, p.ch = conn, ch
	p.log.Info("Queue publisher connected: queue=%s", p.queue)
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func declare(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%w: declare queue %s: %v", ErrConnect, queue, err)
	}
	return nil
}

func encode(event domain.BookingEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrPublish, event.Type, err)
	}
	return body, nil
}

func decode(body []byte) (domain.BookingEvent, error) {
	var event domain.BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if event.Type == "" || event.BookingID == 0 {
		return event, fmt.Errorf("%w: missing type or booking id", ErrDecode)
	}
	return event, nil
}
