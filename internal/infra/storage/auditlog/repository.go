package auditlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

var (
	ErrBuildQuery = errors.New("auditlog.repository: failed to build query")
	ErrExecQuery  = errors.New("auditlog.repository: failed to execute query")
)

// Repository журнал действий, только вставка
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create пишет запись журнала. Внутри транзакции пишет в нее же.
func (r *Repository) Create(ctx context.Context, entry *domain.AuditLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	details := string(entry.Details)
	if details == "" {
		details = "{}"
	}

	query, args, err := psqlbuilder.Insert("audit_logs").
		Columns("actor_id", "action", "entity_type", "entity_id", "details").
		Values(entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, details).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time
	return nil
}
