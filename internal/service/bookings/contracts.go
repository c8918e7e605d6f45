package bookings

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ListForReminder(ctx context.Context, date time.Time) ([]*domain.Booking, error)
	UpdateState(ctx context.Context, booking *domain.Booking) error
	MarkReminderSent(ctx context.Context, id int64) error
}

// UserRepository счетчики клиента
type UserRepository interface {
	AddCompletedStay(ctx context.Context, id int64, spent float64, points int) error
}

// CapacityReleaser возврат мест при неявке
type CapacityReleaser interface {
	Release(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error
}

// EventPublisher публикация событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
