package payment_webhook

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
)

// WebhookParser проверка подписи и разбор события провайдера
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*payments.Event, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, o *domain.Order) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateState(ctx context.Context, booking *domain.Booking) error
}

// OrderCloser закрытие неоплаченного заказа с возвратом мест
type OrderCloser interface {
	CloseUnpaidTx(ctx context.Context, order *domain.Order, status domain.OrderStatus, reason string) (*domain.Booking, error)
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
	IncWebhookEvent(event, outcome string)
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
