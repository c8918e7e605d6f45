package emaillog

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
	ErrBuildQuery = errors.New("emaillog.repository: failed to build query")
	ErrExecQuery  = errors.New("emaillog.repository: failed to execute query")
)

type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, entry *domain.EmailLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("email_logs").
		Columns("recipient", "template", "subject", "status", "provider_message_id", "error").
		Values(entry.Recipient, entry.Template, entry.Subject, entry.Status, entry.ProviderMessageID, entry.Error).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time
	return nil
}
