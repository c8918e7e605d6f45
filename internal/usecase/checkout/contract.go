package checkout

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	quoteModels "github.com/m04kA/PetBoardingService/internal/service/quotes/models"
)

// QuoteService проверка выбора и расчет стоимости на сервере
type QuoteService interface {
	Prepare(ctx context.Context, req *quoteModels.QuoteRequest) (*quoteModels.Prepared, error)
}

// PetProvider сохраненные питомцы клиента
type PetProvider interface {
	OwnedPet(ctx context.Context, ownerID, petID int64) (*domain.Pet, error)
}

// CapacityService резервирование мест
type CapacityService interface {
	Reserve(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	AttachSession(ctx context.Context, id int64, sessionID, checkoutURL string, status domain.OrderStatus) error
}

// OrderCloser закрытие неоплаченного заказа с возвратом мест
type OrderCloser interface {
	CloseUnpaidTx(ctx context.Context, order *domain.Order, status domain.OrderStatus, reason string) (*domain.Booking, error)
}

// PaymentsClient платежный провайдер
type PaymentsClient interface {
	CreateCheckoutSession(ctx context.Context, in payments.CheckoutRequest) (*payments.Session, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-счетчики
type Metrics interface {
	IncBookingCreated(serviceType string)
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
