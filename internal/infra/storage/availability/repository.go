package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

var availabilityColumns = []string{
	"id",
	"date",
	"pet_type",
	"total",
	"booked",
	"blocked",
	"price_override",
	"price_multiplier",
	"is_blocked",
	"block_reason",
	"created_at",
	"updated_at",
}

// Repository учет мест по датам и типам питомцев.
// Ошибки драйвера оборачиваются через %w, чтобы txmanager видел конфликт сериализации.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureRows создает недостающие строки с емкостью по умолчанию
func (r *Repository) EnsureRows(ctx context.Context, petType domain.PetType, dates []time.Time, defaultTotal int) error {
	if len(dates) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("availability").
		Columns("date", "pet_type", "total", "booked", "blocked")
	for _, d := range dates {
		insert = insert.Values(domain.TruncateDate(d), petType, defaultTotal, 0, 0)
	}

	query, args, err := insert.
		Suffix("ON CONFLICT (date, pet_type) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: EnsureRows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsureRows - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// GetByDates строки на указанные даты.
// Внутри транзакции строки блокируются (FOR UPDATE) в порядке дат.
func (r *Repository) GetByDates(ctx context.Context, petType domain.PetType, dates []time.Time) ([]*domain.Availability, error) {
	if len(dates) == 0 {
		return []*domain.Availability{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(availabilityColumns...).
		From("availability").
		Where(squirrel.Eq{"pet_type": petType}).
		Where(squirrel.Eq{"date": truncateAll(dates)}).
		OrderBy("date ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAvailabilities(rows)
}

// ListRange строки в диапазоне [from, to] включительно
func (r *Repository) ListRange(ctx context.Context, petType domain.PetType, from, to time.Time) ([]*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From("availability").
		Where(squirrel.Eq{"pet_type": petType}).
		Where(squirrel.GtOrEq{"date": domain.TruncateDate(from)}).
		Where(squirrel.LtOrEq{"date": domain.TruncateDate(to)}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAvailabilities(rows)
}

// IncrementBooked увеличивает booked на count для всех дат.
// Возвращает число обновленных строк.
func (r *Repository) IncrementBooked(ctx context.Context, petType domain.PetType, dates []time.Time, count int) (int64, error) {
	return r.adjustBooked(ctx, "IncrementBooked", petType, dates, squirrel.Expr("booked + ?", count))
}

// ReleaseBooked уменьшает booked на count, не опускаясь ниже нуля
func (r *Repository) ReleaseBooked(ctx context.Context, petType domain.PetType, dates []time.Time, count int) (int64, error) {
	return r.adjustBooked(ctx, "ReleaseBooked", petType, dates, squirrel.Expr("GREATEST(booked - ?, 0)", count))
}

func (r *Repository) adjustBooked(ctx context.Context, op string, petType domain.PetType, dates []time.Time, expr squirrel.Sqlizer) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability").
		Set("booked", expr).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"pet_type": petType}).
		Where(squirrel.Eq{"date": truncateAll(dates)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	return affected, nil
}

// Upsert сохраняет настройки даты, не трогая booked
func (r *Repository) Upsert(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability").
		Columns(
			"date",
			"pet_type",
			"total",
			"booked",
			"blocked",
			"price_override",
			"price_multiplier",
			"is_blocked",
			"block_reason",
		).
		Values(
			domain.TruncateDate(a.Date),
			a.PetType,
			a.Total,
			0,
			a.Blocked,
			a.PriceOverride,
			a.PriceMultiplier,
			a.IsBlocked,
			a.BlockReason,
		).
		Suffix(`ON CONFLICT (date, pet_type) DO UPDATE SET
			total = EXCLUDED.total,
			blocked = EXCLUDED.blocked,
			price_override = EXCLUDED.price_override,
			price_multiplier = EXCLUDED.price_multiplier,
			is_blocked = EXCLUDED.is_blocked,
			block_reason = EXCLUDED.block_reason,
			updated_at = NOW()
		RETURNING id, booked, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.Booked,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	a.Date = domain.TruncateDate(a.Date)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}

func scanAvailabilities(rows *sql.Rows) ([]*domain.Availability, error) {
	result := make([]*domain.Availability, 0)

	for rows.Next() {
		var (
			a                    domain.Availability
			override, multiplier sql.NullFloat64
			blockReason          sql.NullString
			createdAt, updatedAt sql.NullTime
		)

		err := rows.Scan(
			&a.ID,
			&a.Date,
			&a.PetType,
			&a.Total,
			&a.Booked,
			&a.Blocked,
			&override,
			&multiplier,
			&a.IsBlocked,
			&blockReason,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAvailabilities - scan row: %w", ErrScanRow, err)
		}

		if override.Valid {
			a.PriceOverride = &override.Float64
		}
		if multiplier.Valid {
			a.PriceMultiplier = &multiplier.Float64
		}
		if blockReason.Valid {
			a.BlockReason = &blockReason.String
		}
		a.Date = domain.TruncateDate(a.Date)
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time

		result = append(result, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAvailabilities - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

func truncateAll(dates []time.Time) []time.Time {
	res := make([]time.Time, len(dates))
	for i, d := range dates {
		res[i] = domain.TruncateDate(d)
	}
	return res
}
