package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, date time.Time, petType domain.PetType) (*domain.AvailabilitySummary, error)
	GetRange(ctx context.Context, petType domain.PetType, from, to time.Time) ([]domain.AvailabilitySummary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
