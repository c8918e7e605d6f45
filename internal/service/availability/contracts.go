package availability

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// AvailabilityRepository интерфейс учета мест
type AvailabilityRepository interface {
	EnsureRows(ctx context.Context, petType domain.PetType, dates []time.Time, defaultTotal int) error
	GetByDates(ctx context.Context, petType domain.PetType, dates []time.Time) ([]*domain.Availability, error)
	ListRange(ctx context.Context, petType domain.PetType, from, to time.Time) ([]*domain.Availability, error)
	IncrementBooked(ctx context.Context, petType domain.PetType, dates []time.Time, count int) (int64, error)
	ReleaseBooked(ctx context.Context, petType domain.PetType, dates []time.Time, count int) (int64, error)
	Upsert(ctx context.Context, a *domain.Availability) (*domain.Availability, error)
}

// SettingsProvider источник действующих настроек (емкость по умолчанию)
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.SystemSettings, error)
}

// RangeCache кэш календаря доступности
type RangeCache interface {
	Get(ctx context.Context, petType domain.PetType, from, to time.Time) ([]domain.AvailabilitySummary, bool, error)
	Set(ctx context.Context, petType domain.PetType, from, to time.Time, days []domain.AvailabilitySummary) error
	Invalidate(ctx context.Context, petType domain.PetType) error
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	AfterCommit(ctx context.Context, fn func(ctx context.Context))
}

// Metrics бизнес-счетчики
type Metrics interface {
	IncCapacityRejected(petType string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
