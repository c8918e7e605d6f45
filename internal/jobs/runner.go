package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

const (
	JobExpireOrders  = "expire_orders"
	JobStayReminders = "stay_reminders"

	// jobTimeout верхняя граница одного запуска
	jobTimeout = 5 * time.Minute
)

// Runner выполняет фоновые задачи с журналом запусков
type Runner struct {
	orders    OrderExpirer
	reminders ReminderSender
	cronLogs  CronLogRepository
	metrics   Metrics
	logger    Logger
	now       func() time.Time
}

// NewRunner создает исполнителя задач
func NewRunner(
	orders OrderExpirer,
	reminders ReminderSender,
	cronLogs CronLogRepository,
	metrics Metrics,
	logger Logger,
) *Runner {
	return &Runner{
		orders:    orders,
		reminders: reminders,
		cronLogs:  cronLogs,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ExpireOrders просроченные заказы переходят в expired, места освобождаются
func (r *Runner) ExpireOrders() {
	r.run(JobExpireOrders, r.orders.ExpireStale)
}

// SendStayReminders напоминания подтвержденным бронированиям с заездом завтра
func (r *Runner) SendStayReminders() {
	r.run(JobStayReminders, r.reminders.SendStayReminders)
}

// run оборачивает задачу: журнал, метрика, восстановление после паники
func (r *Runner) run(job string, fn func(ctx context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	startedAt := r.now().UTC()
	logID, err := r.cronLogs.Start(ctx, job, startedAt)
	if err != nil {
		// задача все равно выполняется, теряется только строка журнала
		r.logger.Warn("Job %s: failed to write cron log: %v", job, err)
	}

	processed, runErr := r.safeCall(ctx, job, fn)

	status := domain.CronSucceeded
	var errText *string
	if runErr != nil {
		status = domain.CronFailed
		msg := runErr.Error()
		errText = &msg
		r.logger.Error("Job %s: failed after %d processed: %v", job, processed, runErr)
	} else {
		r.logger.Info("Job %s: done, processed=%d in %s", job, processed, r.now().Sub(startedAt))
	}
	r.metrics.IncJobRun(job, string(status))

	if logID == 0 {
		return
	}
	if err := r.cronLogs.Finish(ctx, logID, status, processed, errText, r.now().UTC()); err != nil {
		r.logger.Warn("Job %s: failed to finish cron log id=%d: %v", job, logID, err)
	}
}

func (r *Runner) safeCall(ctx context.Context, job string, fn func(ctx context.Context) (int, error)) (processed int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("jobs: %s panicked: %v", job, p)
		}
	}()
	return fn(ctx)
}
