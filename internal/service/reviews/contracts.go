package reviews

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) (*domain.Review, error)
	ListPublished(ctx context.Context, limit int) ([]*domain.Review, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
