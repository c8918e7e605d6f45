package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

// единственная строка настроек
const settingsRowID = 1

// Repository системные настройки, хранятся одним JSONB документом
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get загружает сохраненные настройки
func (r *Repository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("data", "updated_by", "updated_at").
		From("system_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		data      []byte
		updatedBy sql.NullInt64
		updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&data, &updatedBy, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	var s domain.SystemSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: Get - decode settings: %v", ErrScanRow, err)
	}
	if updatedBy.Valid {
		s.UpdatedBy = &updatedBy.Int64
	}
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Save создает или заменяет документ настроек
func (r *Repository) Save(ctx context.Context, s *domain.SystemSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: Save - %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("system_settings").
		Columns("id", "data", "updated_by").
		Values(settingsRowID, string(data), s.UpdatedBy).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}
	s.UpdatedAt = updatedAt.Time
	return nil
}
