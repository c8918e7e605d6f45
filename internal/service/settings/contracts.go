package settings

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// SettingsRepository интерфейс хранилища системных настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
	Save(ctx context.Context, s *domain.SystemSettings) error
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
