package cronlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

var (
	ErrBuildQuery = errors.New("cronlog.repository: failed to build query")
	ErrExecQuery  = errors.New("cronlog.repository: failed to execute query")
)

// Repository журнал запусков фоновых задач
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Start записывает начало запуска и возвращает его id
func (r *Repository) Start(ctx context.Context, job string, startedAt time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("cron_logs").
		Columns("job_name", "status", "started_at").
		Values(job, domain.CronRunning, startedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Start - build insert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: Start - execute insert: %v", ErrExecQuery, err)
	}
	return id, nil
}

// Finish фиксирует результат запуска
func (r *Repository) Finish(ctx context.Context, id int64, status domain.CronStatus, processed int, runErr *string, finishedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("cron_logs").
		Set("status", status).
		Set("processed", processed).
		Set("error", runErr).
		Set("finished_at", finishedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Finish - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Finish - execute update: %v", ErrExecQuery, err)
	}
	return nil
}
