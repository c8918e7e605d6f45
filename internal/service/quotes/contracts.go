package quotes

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// SettingsProvider источник действующих настроек
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.SystemSettings, error)
}

// RateProvider ставки по датам с учетом переопределений цены
type RateProvider interface {
	DailyRates(ctx context.Context, petType domain.PetType, dates []time.Time, base float64) ([]float64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
