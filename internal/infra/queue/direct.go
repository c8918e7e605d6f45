package queue

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// DirectPublisher передает события обработчику в том же процессе.
// Используется, когда RabbitMQ выключен.
type DirectPublisher struct {
	handler Handler
	log     Logger
}

func NewDirectPublisher(handler Handler, log Logger) *DirectPublisher {
	return &DirectPublisher{handler: handler, log: log}
}

func (p *DirectPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	if err := p.handler.HandleEvent(ctx, event); err != nil {
		p.log.Error("DirectPublisher: handle %s booking=%s: %v", event.Type, event.BookingNumber, err)
		return err
	}
	return nil
}
