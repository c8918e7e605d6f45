package orders

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
)

// OrderRepository интерфейс хранилища заказов
type OrderRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, o *domain.Order) error
	AddRefund(ctx context.Context, refund *domain.Refund) (*domain.Refund, error)
}

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateState(ctx context.Context, booking *domain.Booking) error
}

// RefundClient возвраты у платежного провайдера
type RefundClient interface {
	CreateRefund(ctx context.Context, in payments.RefundRequest) (*payments.RefundResult, error)
}

// CapacityReleaser возврат мест в учет доступности
type CapacityReleaser interface {
	Release(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
