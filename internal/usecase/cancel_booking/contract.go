package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateState(ctx context.Context, booking *domain.Booking) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetSettledByBookingID(ctx context.Context, bookingID int64) (*domain.Order, error)
	CancelAwaitingByBooking(ctx context.Context, bookingID int64, reason string) (int64, error)
}

// RefundService возврат у провайдера и его запись
type RefundService interface {
	IssueRefund(ctx context.Context, order *domain.Order, amount float64, reason string, actorID *int64) (*domain.Refund, error)
	ApplyRefundTx(ctx context.Context, orderID string, refund *domain.Refund) (*domain.Order, *domain.Booking, error)
}

// CapacityReleaser возврат мест
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

// Metrics бизнес-счетчики
type Metrics interface {
	IncRefund(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
