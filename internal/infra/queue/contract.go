package queue

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// Handler обработчик событий бронирований
type Handler interface {
	HandleEvent(ctx context.Context, event domain.BookingEvent) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
