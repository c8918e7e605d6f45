package jobs

import (
	"context"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// OrderExpirer закрывает просроченные сессии оплаты
type OrderExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// ReminderSender рассылает напоминания о завтрашних заездах
type ReminderSender interface {
	SendStayReminders(ctx context.Context) (int, error)
}

// CronLogRepository журнал запусков
type CronLogRepository interface {
	Start(ctx context.Context, job string, startedAt time.Time) (int64, error)
	Finish(ctx context.Context, id int64, status domain.CronStatus, processed int, runErr *string, finishedAt time.Time) error
}

// Metrics счетчик запусков
type Metrics interface {
	IncJobRun(job, status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
