package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule cron-выражения задач, с секундами
type Schedule struct {
	ExpireOrders  string
	StayReminders string
}

// Scheduler запускает задачи по расписанию в UTC
type Scheduler struct {
	cron   *cron.Cron
	logger Logger
}

// NewScheduler регистрирует задачи исполнителя.
// Некорректное выражение расписания возвращается как ошибка.
func NewScheduler(runner *Runner, schedule Schedule, logger Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	if _, err := c.AddFunc(schedule.ExpireOrders, runner.ExpireOrders); err != nil {
		return nil, fmt.Errorf("jobs: register %s %q: %w", JobExpireOrders, schedule.ExpireOrders, err)
	}
	if _, err := c.AddFunc(schedule.StayReminders, runner.SendStayReminders); err != nil {
		return nil, fmt.Errorf("jobs: register %s %q: %w", JobStayReminders, schedule.StayReminders, err)
	}

	logger.Info("Scheduler: registered %d jobs", len(c.Entries()))
	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler: started")
}

// Stop ждет завершения уже запущенных задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler: stopped")
}
